package reporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func decodeEvents(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var events []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var event map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid NDJSON line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}
	return events
}

func TestJSONReporterEmitsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	rep := NewJSONReporterWithWriter(&buf)

	rep.SessionStarted(SessionInfo{
		Source:    "src.mkv",
		Encodes:   []string{"t1.mkv"},
		OutputDir: "screens",
		Kernel:    "spline36",
	})
	rep.Classification(true)
	rep.TagsAllocated([]string{"a", "b"})
	rep.RenderComplete(RenderSummary{
		Screenshots: 4,
		OutputDir:   "screens",
		Elapsed:     1500 * time.Millisecond,
	})

	events := decodeEvents(t, &buf)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	wantTypes := []string{"session_started", "classification", "tags_allocated", "render_complete"}
	for i, want := range wantTypes {
		if events[i]["type"] != want {
			t.Errorf("event %d type = %v, want %s", i, events[i]["type"], want)
		}
		if events[i]["run_id"] != rep.RunID() {
			t.Errorf("event %d run_id = %v, want %s", i, events[i]["run_id"], rep.RunID())
		}
	}

	if events[0]["source"] != "src.mkv" {
		t.Errorf("session source = %v", events[0]["source"])
	}
	if events[1]["hdr"] != true {
		t.Errorf("classification hdr = %v, want true", events[1]["hdr"])
	}
	if events[3]["elapsed_ms"] != float64(1500) {
		t.Errorf("render elapsed_ms = %v, want 1500", events[3]["elapsed_ms"])
	}
}

func TestJSONReporterRunIDsAreUnique(t *testing.T) {
	var buf bytes.Buffer
	a := NewJSONReporterWithWriter(&buf)
	b := NewJSONReporterWithWriter(&buf)
	if a.RunID() == b.RunID() {
		t.Errorf("two reporters share run id %s", a.RunID())
	}
}

func TestCompositeFansOut(t *testing.T) {
	var first, second bytes.Buffer
	composite := NewCompositeReporter(
		NewJSONReporterWithWriter(&first),
		NewJSONReporterWithWriter(&second),
	)

	composite.Warning("check the crop")
	composite.OperationComplete("done")

	for name, buf := range map[string]*bytes.Buffer{"first": &first, "second": &second} {
		events := decodeEvents(t, buf)
		if len(events) != 2 {
			t.Fatalf("%s reporter got %d events, want 2", name, len(events))
		}
		if events[0]["message"] != "check the crop" {
			t.Errorf("%s warning message = %v", name, events[0]["message"])
		}
	}
}

var (
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*TerminalReporter)(nil)
	_ Reporter = (*CompositeReporter)(nil)
	_ Reporter = NullReporter{}
)
