package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JSONReporter outputs NDJSON events, one object per line. Every event
// carries the run id so interleaved runs can be demultiplexed.
type JSONReporter struct {
	writer io.Writer
	runID  string
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer: w,
		runID:  uuid.NewString(),
	}
}

// RunID returns the identifier stamped on every event of this run.
func (r *JSONReporter) RunID() string {
	return r.runID
}

func (r *JSONReporter) write(event string, fields map[string]any) {
	payload := map[string]any{
		"type":      event,
		"run_id":    r.runID,
		"timestamp": time.Now().Unix(),
	}
	for k, v := range fields {
		payload[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) SessionStarted(info SessionInfo) {
	r.write("session_started", map[string]any{
		"source":      info.Source,
		"encodes":     info.Encodes,
		"output_dir":  info.OutputDir,
		"load_filter": info.LoadFilter,
		"kernel":      info.Kernel,
		"offset":      info.Offset,
	})
}

func (r *JSONReporter) ClipTable(rows []ClipInfo) {
	clips := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		clips = append(clips, map[string]any{
			"label":         row.Label,
			"file":          row.File,
			"resolution":    row.Resolution,
			"frames":        row.Frames,
			"dynamic_range": row.DynamicRange,
			"tag":           row.Tag,
		})
	}
	r.write("clips", map[string]any{"clips": clips})
}

func (r *JSONReporter) ResizeDecision(summary ResizeSummary) {
	r.write("resize_decision", map[string]any{
		"message":  summary.Message,
		"required": summary.Required,
	})
}

func (r *JSONReporter) CropResult(summary CropSummary) {
	r.write("crop_result", map[string]any{"message": summary.Message})
}

func (r *JSONReporter) Classification(hdr bool) {
	r.write("classification", map[string]any{"hdr": hdr})
}

func (r *JSONReporter) TonemapAttemptFailed(info TonemapAttemptInfo) {
	r.write("tonemap_attempt_failed", map[string]any{
		"clip":    info.ClipIndex,
		"attempt": info.Attempt,
		"stage":   info.Stage,
		"reason":  info.Reason,
	})
}

func (r *JSONReporter) TonemapApplied(info TonemapAppliedInfo) {
	r.write("tonemap_applied", map[string]any{
		"clip":         info.ClipIndex,
		"function":     info.Function,
		"dynamic_peak": info.DynamicPeak,
		"dst_max":      info.DstMax,
	})
}

func (r *JSONReporter) TonemapFallback(info TonemapFallbackInfo) {
	r.write("tonemap_fallback", map[string]any{
		"clip":   info.ClipIndex,
		"reason": info.Reason,
	})
}

func (r *JSONReporter) TagsAllocated(tags []string) {
	r.write("tags_allocated", map[string]any{"tags": tags})
}

func (r *JSONReporter) RenderStarted(totalScreenshots int) {
	r.write("render_started", map[string]any{"total": totalScreenshots})
}

func (r *JSONReporter) RenderProgress(done, total int) {
	r.write("render_progress", map[string]any{"done": done, "total": total})
}

func (r *JSONReporter) RenderComplete(summary RenderSummary) {
	r.write("render_complete", map[string]any{
		"screenshots": summary.Screenshots,
		"output_dir":  summary.OutputDir,
		"elapsed_ms":  summary.Elapsed.Milliseconds(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write("warning", map[string]any{"message": message})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write("error", map[string]any{
		"title":      err.Title,
		"message":    err.Message,
		"suggestion": err.Suggestion,
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write("complete", map[string]any{"message": message})
}

func (r *JSONReporter) Verbose(message string) {
	r.write("verbose", map[string]any{"message": message})
}
