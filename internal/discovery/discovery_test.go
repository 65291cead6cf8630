package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screengen/internal/errors"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindVideoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.mkv", 1)
	writeFile(t, dir, "A.mp4", 1)
	writeFile(t, dir, "notes.txt", 1)
	writeFile(t, dir, ".hidden.mkv", 1)
	if err := os.Mkdir(filepath.Join(dir, "sub.mkv"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := FindVideoFiles(dir)
	if err != nil {
		t.Fatalf("FindVideoFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "A.mp4" || filepath.Base(files[1]) != "b.mkv" {
		t.Errorf("files not sorted case-insensitively: %v", files)
	}
}

func TestFindVideoFilesEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", 1)

	_, err := FindVideoFiles(dir)
	if !errors.IsKind(err, errors.KindNoFilesFound) {
		t.Errorf("error = %v, want NoFilesFound", err)
	}
}

func TestFindVideoFilesMissingDir(t *testing.T) {
	_, err := FindVideoFiles(filepath.Join(t.TempDir(), "nope"))
	if !errors.IsKind(err, errors.KindPath) {
		t.Errorf("error = %v, want path error", err)
	}
}

func TestFindEncodesExcludesSourceStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "movie.mkv", 1)
	writeFile(t, dir, "t1.mkv", 1)
	writeFile(t, dir, "t2.mp4", 1)

	encodes, err := FindEncodes(dir, "movie")
	if err != nil {
		t.Fatalf("FindEncodes failed: %v", err)
	}
	if len(encodes) != 2 {
		t.Fatalf("found %d encodes, want 2: %v", len(encodes), encodes)
	}
	for _, f := range encodes {
		if Stem(f) == "movie" {
			t.Errorf("source %s not excluded", f)
		}
	}
}

func TestGuessSourcePicksLargest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "t1.mkv", 10)
	big := writeFile(t, dir, "movie.mkv", 1000)
	writeFile(t, dir, "t2.mkv", 20)

	got, err := GuessSource(dir)
	if err != nil {
		t.Fatalf("GuessSource failed: %v", err)
	}
	if got != big {
		t.Errorf("GuessSource = %s, want %s", got, big)
	}
}

func TestOutputDirAutoNaming(t *testing.T) {
	root := t.TempDir()

	first, err := OutputDir(root, "", 0, nil)
	if err != nil {
		t.Fatalf("OutputDir failed: %v", err)
	}
	if filepath.Base(first) != "screens t1-offset_0" {
		t.Errorf("first dir = %s, want screens t1-offset_0", filepath.Base(first))
	}

	second, err := OutputDir(root, "", 24, nil)
	if err != nil {
		t.Fatalf("OutputDir failed: %v", err)
	}
	if filepath.Base(second) != "screens t2-offset_24" {
		t.Errorf("second dir = %s, want screens t2-offset_24", filepath.Base(second))
	}
	for _, dir := range []string{first, second} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}

func TestOutputDirExplicit(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "shots", "run1")

	got, err := OutputDir(root, want, 0, nil)
	if err != nil {
		t.Fatalf("OutputDir failed: %v", err)
	}
	if got != want {
		t.Errorf("OutputDir = %s, want %s", got, want)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("%s was not created", got)
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/path/to/movie.2020.mkv"); got != "movie.2020" {
		t.Errorf("Stem = %q, want %q", got, "movie.2020")
	}
	if got := Stem("bare"); !strings.EqualFold(got, "bare") {
		t.Errorf("Stem = %q, want %q", got, "bare")
	}
}
