package definition

const (
	// DefaultName is the base package name before any suffix is applied
	DefaultName = "dmqnode"

	// DefaultURL is the upstream project page
	DefaultURL = "https://github.com/sociomantic-tsunami/dmqnode"

	// DefaultMaintainer is the maintainer contact recorded in the package
	DefaultMaintainer = "dunnhumby Germany GmbH <tsunami@sociomantic.com>"

	// DefaultVendor is the vendor recorded in the package
	DefaultVendor = "dunnhumby Germany GmbH"

	// DefaultDescription is the package description
	DefaultDescription = "The DMQ node is a server implementing one node for a network message queue."

	// DefaultVersion is used when no version could be determined
	DefaultVersion = "0.0.0"

	// ReadmeSource is the README path relative to the source root
	ReadmeSource = "README.rst"

	// DocRoot is where per-package documentation is installed
	DocRoot = "/usr/share/doc"
)

// Placeholders expanded in definition files
const (
	PlaceholderFullName = "{fullname}"
	PlaceholderName     = "{name}"
	PlaceholderVersion  = "{version}"
	PlaceholderArch     = "{arch}"
)
