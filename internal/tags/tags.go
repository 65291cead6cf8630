// Package tags allocates the single-letter screenshot tags that
// distinguish each clip's output files within a shared directory. The
// directory's file names are the only durable record of past tags: used
// tags are re-derived by scanning on every run, never persisted.
package tags

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"screengen/internal/errors"
)

// imageSuffixes are the artifact extensions considered when scanning a
// directory for previously used tags.
var imageSuffixes = []string{".jpg", ".jpeg", ".png"}

// TagSet is an ordered sequence of single-letter tags, one per clip.
// The source clip (when present) consumes the first tag; the encodes
// consume the rest in input order.
type TagSet []string

// UsedTags scans dir for image files and returns the set of previously
// used tag codes, derived from the first alphabetic character of each
// file name. A missing directory yields an empty set.
func UsedTags(dir string) ([]rune, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError("scanning output directory for used tags", err)
	}

	seen := make(map[rune]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isImage(name) {
			continue
		}
		for _, r := range name {
			if unicode.IsLetter(r) {
				seen[r] = struct{}{}
				break
			}
		}
	}

	used := make([]rune, 0, len(seen))
	for r := range seen {
		used = append(used, r)
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })
	return used, nil
}

// Allocate produces n unique single-letter tags for the given output
// directory such that no tag collides with any artifact already present
// from a previous run, nor with another tag in this run.
//
// An empty directory yields 'a', 'b', ... sequentially. Otherwise every
// previously observed code is shifted by +n, which places the new range
// above any single prior run's tags; if deduplication leaves fewer than
// n entries the set is extended by incrementing from the last tag.
func Allocate(dir string, n int) (TagSet, error) {
	if n <= 0 {
		return nil, nil
	}

	used, err := UsedTags(dir)
	if err != nil {
		return nil, err
	}

	if len(used) == 0 {
		tags := make(TagSet, 0, n)
		for i := 0; i < n; i++ {
			tags = append(tags, string(rune('a'+i)))
		}
		return tags, nil
	}

	shifted := make([]rune, 0, len(used))
	last := used[len(used)-1]
	for _, r := range used {
		shifted = append(shifted, r+rune(n))
	}
	if shifted[len(shifted)-1] > last {
		last = shifted[len(shifted)-1]
	}

	tags := make(TagSet, 0, n)
	for _, r := range shifted {
		if len(tags) == n {
			break
		}
		tags = append(tags, string(r))
	}
	for len(tags) < n {
		last++
		tags = append(tags, string(last))
	}
	return tags, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, suffix := range imageSuffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}
