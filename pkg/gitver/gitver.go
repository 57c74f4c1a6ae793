// Package gitver derives a package version from the tags of the git
// repository the sources live in.
package gitver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Untagged is the base version used when no tag is reachable
const Untagged = "0.0.0"

var versionTag = regexp.MustCompile(`^v?(\d+\.\d+\.\d+\S*)$`)

// Describe returns the version of HEAD in the repository containing dir:
// X.Y.Z on a tagged commit, X.Y.Z+N.g<sha> when N commits are reachable from
// HEAD but not from the nearest tag, and 0.0.0+N.g<sha> when no tag is
// reachable.
func Describe(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}

	reachable, err := ancestors(repo, head.Hash())
	if err != nil {
		return "", err
	}

	// The nearest tag is the one leaving the fewest commits reachable from
	// HEAD but not from the tag; ties go to the greater version.
	base, distance := "", len(reachable)
	for hash, v := range tags {
		if _, ok := reachable[hash]; !ok {
			continue
		}
		covered, err := ancestors(repo, hash)
		if err != nil {
			return "", err
		}
		d := 0
		for h := range reachable {
			if _, ok := covered[h]; !ok {
				d++
			}
		}
		if base == "" || d < distance || (d == distance && strings.Compare(v, base) > 0) {
			base, distance = v, d
		}
	}

	short := head.Hash().String()[:7]
	switch {
	case base == "":
		return fmt.Sprintf("%s+%d.g%s", Untagged, distance, short), nil
	case distance == 0:
		return base, nil
	default:
		return fmt.Sprintf("%s+%d.g%s", base, distance, short), nil
	}
}

// ancestors returns from and every commit reachable from it
func ancestors(repo *git.Repository, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	commits, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer commits.Close()

	out := make(map[plumbing.Hash]struct{})
	err = commits.ForEach(func(c *object.Commit) error {
		out[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	return out, nil
}

// tagsByCommit maps every version-looking tag to the commit it points at.
// Annotated tags are peeled. When several tags name one commit the greatest
// string wins.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	out := make(map[plumbing.Hash]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		m := versionTag.FindStringSubmatch(ref.Name().Short())
		if m == nil {
			return nil
		}

		hash := ref.Hash()
		tag, err := repo.TagObject(hash)
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				return nil
			}
			hash = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return err
		}

		if prev, ok := out[hash]; !ok || strings.Compare(m[1], prev) > 0 {
			out[hash] = m[1]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return out, nil
}
