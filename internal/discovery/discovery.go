// Package discovery locates the source and encode files for a comparison
// run and resolves the screenshot output directory.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"screengen/internal/config"
	"screengen/internal/errors"
	"screengen/internal/logging"
)

// FindVideoFiles returns the video files in dir, sorted alphabetically by
// name. Hidden files and subdirectories are skipped.
func FindVideoFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewPathError(fmt.Sprintf("directory does not exist: %s", dir))
	}
	if !info.IsDir() {
		return nil, errors.NewPathError(fmt.Sprintf("%s is not a directory", dir))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("cannot read directory %s", dir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if isVideoFile(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

// FindEncodes returns the video files in dir excluding the one whose stem
// matches sourceStem, so a source sitting next to its encodes is not
// compared against itself.
func FindEncodes(dir, sourceStem string) ([]string, error) {
	files, err := FindVideoFiles(dir)
	if err != nil {
		return nil, err
	}

	encodes := files[:0]
	for _, f := range files {
		if stem(f) != sourceStem {
			encodes = append(encodes, f)
		}
	}
	if len(encodes) == 0 {
		return nil, errors.NewNoFilesFoundError(dir)
	}
	return encodes, nil
}

// GuessSource picks the largest video file in dir as the presumed source.
// Encodes are smaller than what they were encoded from, so file size is a
// reliable discriminator when the source was not named explicitly.
func GuessSource(dir string) (string, error) {
	files, err := FindVideoFiles(dir)
	if err != nil {
		return "", err
	}

	best := ""
	var bestSize int64 = -1
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = f
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", errors.NewNoFilesFoundError(dir)
	}
	return best, nil
}

// OutputDir resolves and creates the screenshot output directory. An
// explicit path is created as given; when none is supplied the directory
// is auto-named under root as "screens t<N+1>-offset_<offset>", where N
// counts existing sibling directories containing "screens", so repeated
// runs never land in the same default directory.
func OutputDir(root, explicit string, offset int, log *logging.Logger) (string, error) {
	if log == nil {
		log = logging.Global()
	}

	if explicit != "" {
		if err := os.MkdirAll(explicit, 0o755); err != nil {
			fallback := filepath.Join(root, fmt.Sprintf("screens-offset_%d", offset))
			log.Warn("failed to create output directory, using fallback",
				"requested", explicit, "fallback", fallback, "error", err)
			if mkErr := os.MkdirAll(fallback, 0o755); mkErr != nil {
				return "", errors.NewIOError("creating fallback output directory", mkErr)
			}
			return fallback, nil
		}
		return explicit, nil
	}

	count, err := countScreenDirs(root)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, fmt.Sprintf("screens t%d-offset_%d", count+1, offset))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewIOError("creating output directory", err)
	}
	return dir, nil
}

func countScreenDirs(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, errors.NewIOError(fmt.Sprintf("cannot read directory %s", root), err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), "screens") {
			count++
		}
	}
	return count, nil
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	return stem(path)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, suffix := range config.VideoSuffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}
