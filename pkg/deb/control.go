package deb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// NewControl builds control fields from package options. installedSize is
// in bytes and is rounded up to KiB.
func NewControl(opts definition.Options, installedSize int64) *Control {
	c := &Control{
		Package:       opts.Name,
		Version:       opts.PackageVersion(),
		Architecture:  opts.Arch,
		Maintainer:    opts.Maintainer,
		InstalledSize: (installedSize + 1023) / 1024,
		Depends:       opts.Depends,
		Section:       opts.Category,
		Priority:      opts.Priority,
		Homepage:      opts.URL,
		Vendor:        opts.Vendor,
		License:       opts.License,
		Description:   strings.TrimSpace(opts.Description),
	}
	if c.Section == "" {
		c.Section = DefaultSection
	}
	if c.Priority == "" {
		c.Priority = DefaultPriority
	}
	return c
}

// Synopsis returns the first description line
func (c *Control) Synopsis() string {
	line, _, _ := strings.Cut(c.Description, "\n")
	return line
}

// String renders the control stanza
func (c *Control) String() string {
	var b strings.Builder

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}

	field("Package", c.Package)
	field("Version", c.Version)
	field("Architecture", c.Architecture)
	field("Maintainer", c.Maintainer)
	if c.InstalledSize > 0 {
		field("Installed-Size", strconv.FormatInt(c.InstalledSize, 10))
	}
	field("Depends", strings.Join(c.Depends, ", "))
	field("Section", c.Section)
	field("Priority", c.Priority)
	field("Homepage", c.Homepage)
	field("Vendor", c.Vendor)
	field("License", c.License)

	lines := strings.Split(c.Description, "\n")
	fmt.Fprintf(&b, "Description: %s\n", strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			line = "."
		}
		fmt.Fprintf(&b, " %s\n", line)
	}

	return b.String()
}

// ParseControl parses a single control stanza
func ParseControl(r io.Reader) (*Control, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	c := &Control{}
	var last string

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if c.Package != "" {
				break
			}
			continue
		}

		// Continuation line (starts with space or tab)
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if last == "Description" {
				cont := strings.TrimSpace(line)
				if cont == "." {
					cont = ""
				}
				c.Description += "\n" + cont
			}
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		field := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		last = field

		switch field {
		case "Package":
			c.Package = value
		case "Version":
			c.Version = value
		case "Architecture":
			c.Architecture = value
		case "Maintainer":
			c.Maintainer = value
		case "Installed-Size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				c.InstalledSize = size
			}
		case "Depends":
			c.Depends = parseList(value)
		case "Section":
			c.Section = value
		case "Priority":
			c.Priority = value
		case "Homepage":
			c.Homepage = value
		case "Vendor":
			c.Vendor = value
		case "License":
			c.License = value
		case "Description":
			c.Description = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning control file: %w", err)
	}
	if c.Package == "" {
		return nil, fmt.Errorf("control file has no Package field")
	}

	return c, nil
}

func parseList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Options converts the control fields back into package options
func (c *Control) Options() definition.Options {
	version, iteration := c.Version, ""
	if i := strings.LastIndex(version, "-"); i > 0 {
		version, iteration = c.Version[:i], c.Version[i+1:]
	}
	return definition.Options{
		Name:        c.Package,
		URL:         c.Homepage,
		Maintainer:  c.Maintainer,
		Vendor:      c.Vendor,
		Description: c.Description,
		Version:     version,
		Iteration:   iteration,
		Arch:        c.Architecture,
		License:     c.License,
		Category:    c.Section,
		Priority:    c.Priority,
		Depends:     c.Depends,
	}
}
