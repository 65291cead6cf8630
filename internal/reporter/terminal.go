package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	verbose  bool
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	magenta  *color.Color
	bold     *color.Color
}

// NewTerminalReporter creates a new terminal reporter. Color output is
// disabled when stdout is not a terminal.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

func (r *TerminalReporter) SessionStarted(info SessionInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("COMPARISON")
	const w = 12
	if info.Source != "" {
		r.printLabel(w, "Source:", info.Source)
	}
	r.printLabel(w, "Encodes:", strings.Join(info.Encodes, ", "))
	r.printLabel(w, "Output:", info.OutputDir)
	r.printLabel(w, "Loader:", info.LoadFilter)
	r.printLabel(w, "Kernel:", info.Kernel)
	if info.Offset != 0 {
		r.printLabel(w, "Offset:", fmt.Sprintf("%d frames", info.Offset))
	}
}

func (r *TerminalReporter) ClipTable(rows []ClipInfo) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Clip", "File", "Resolution", "Frames", "Range", "Tag"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Label, row.File, row.Resolution, row.Frames, row.DynamicRange, row.Tag})
	}
	fmt.Println()
	for _, line := range strings.Split(tw.Render(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (r *TerminalReporter) ResizeDecision(summary ResizeSummary) {
	var status string
	if summary.Required {
		status = r.green.Sprint("resize")
	} else {
		status = color.New(color.Faint).Sprint("no resize")
	}
	fmt.Printf("  %s %s (%s)\n", r.bold.Sprint("Resize:"), summary.Message, status)
}

func (r *TerminalReporter) CropResult(summary CropSummary) {
	fmt.Printf("  %s %s\n", r.bold.Sprint("Crop:"), summary.Message)
}

func (r *TerminalReporter) Classification(hdr bool) {
	rangeName := "SDR"
	if hdr {
		rangeName = "HDR"
	}
	fmt.Printf("  %s %s\n", r.bold.Sprint("Dynamic range:"), rangeName)
}

func (r *TerminalReporter) TonemapAttemptFailed(info TonemapAttemptInfo) {
	_, _ = r.yellow.Printf("  Tonemap attempt %d (%s) failed for clip %d: %s\n",
		info.Attempt, info.Stage, info.ClipIndex, info.Reason)
}

func (r *TerminalReporter) TonemapApplied(info TonemapAppliedInfo) {
	fmt.Printf("  %s clip %d: function %s (dpd=%t, dst_max=%g)\n",
		r.green.Sprint("Tonemapped"), info.ClipIndex, info.Function, info.DynamicPeak, info.DstMax)
}

func (r *TerminalReporter) TonemapFallback(info TonemapFallbackInfo) {
	_, _ = r.yellow.Printf("  Clip %d fell back to direct SDR conversion: %s\n", info.ClipIndex, info.Reason)
}

func (r *TerminalReporter) TagsAllocated(tags []string) {
	fmt.Printf("  %s %s\n", r.bold.Sprint("Tags:"), strings.Join(tags, ", "))
}

func (r *TerminalReporter) RenderStarted(totalScreenshots int) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("SCREENSHOTS")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions(
		totalScreenshots,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Rendering [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) RenderProgress(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress == nil {
		return
	}
	_ = r.progress.Set(done)
}

func (r *TerminalReporter) RenderComplete(summary RenderSummary) {
	r.finishProgress()

	fmt.Printf("  %d screenshots written to %s in %s\n",
		summary.Screenshots, r.bold.Sprint(summary.OutputDir), summary.Elapsed.Round(summaryRounding))
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), message)
}
