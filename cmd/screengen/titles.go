package main

import (
	"path/filepath"

	"screengen/internal/discovery"
)

// defaultTitles fills in clip titles when the user gave fewer than one
// per clip. A title list one short with a source present labels the
// source "Source"; an empty list falls back to file stems.
func defaultTitles(titles []string, source string, encodes []string) []string {
	total := len(encodes)
	if source != "" {
		total++
	}

	switch {
	case len(titles) == total:
		return titles
	case source != "" && len(titles) == len(encodes) && len(titles) > 0:
		return append([]string{"Source"}, titles...)
	case len(titles) == 0:
		if source != "" && len(encodes) == 0 {
			return []string{"Source"}
		}
		out := make([]string, 0, total)
		if source != "" {
			out = append(out, discovery.Stem(source))
		}
		for _, e := range encodes {
			out = append(out, discovery.Stem(e))
		}
		return out
	default:
		// A partial list passes through; preparation warns and labels
		// the remainder positionally.
		return titles
	}
}

// outputRoot picks the directory that auto-named output directories are
// created under.
func outputRoot(flags *rootFlags, source string, encodes []string) string {
	if flags.inputDir != "" {
		return flags.inputDir
	}
	if source != "" {
		return filepath.Dir(source)
	}
	if len(encodes) > 0 {
		return filepath.Dir(encodes[0])
	}
	return "."
}
