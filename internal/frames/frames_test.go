package frames

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"screengen/internal/errors"
)

func TestRandomSortedAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got, err := Random(rng, RandomRange{Start: 100, Stop: 25000, Count: 25}, []int{30000, 24000})
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("selected %d frames, want 25", len(got))
	}
	if !sort.IntsAreSorted(got) {
		t.Errorf("frames not sorted: %v", got)
	}
	// Stop is clamped to the shortest clip minus the safety margin.
	for _, f := range got {
		if f < 100 || f >= 24000-5 {
			t.Errorf("frame %d outside [100, 23995)", f)
		}
	}
	seen := map[int]bool{}
	for _, f := range got {
		if seen[f] {
			t.Errorf("duplicate frame %d", f)
		}
		seen[f] = true
	}
}

func TestRandomErrors(t *testing.T) {
	tests := []struct {
		name   string
		r      RandomRange
		counts []int
	}{
		{"start beyond smallest clip", RandomRange{Start: 5000, Stop: 6000, Count: 5}, []int{4000}},
		{"count exceeds range", RandomRange{Start: 0, Stop: 10, Count: 50}, []int{10000}},
		{"zero count", RandomRange{Start: 0, Stop: 100, Count: 0}, []int{10000}},
		{"no clips", RandomRange{Start: 0, Stop: 100, Count: 5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Random(rand.New(rand.NewSource(1)), tt.r, tt.counts)
			if !errors.IsKind(err, errors.KindConfig) {
				t.Errorf("Random() error = %v, want configuration error", err)
			}
		})
	}
}

func TestRandomDeterministicWithSeed(t *testing.T) {
	a, err := Random(rand.New(rand.NewSource(42)), RandomRange{Start: 10, Stop: 500, Count: 8}, []int{1000})
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	b, err := Random(rand.New(rand.NewSource(42)), RandomRange{Start: 10, Stop: 500, Count: 8}, []int{1000})
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestOffset(t *testing.T) {
	in := []int{100, 250, 9000}
	got := Offset(in, 24)
	want := []int{124, 274, 9024}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Offset = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(in, []int{100, 250, 9000}) {
		t.Error("Offset mutated its input")
	}
}

func TestTrimRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       TrimRange
		wantErr bool
	}{
		{"valid window", TrimRange{Start: 100, End: 500}, false},
		{"inverted", TrimRange{Start: 500, End: 100}, true},
		{"empty", TrimRange{Start: 100, End: 100}, true},
		{"negative start", TrimRange{Start: -1, End: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
