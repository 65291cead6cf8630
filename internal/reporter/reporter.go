package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	SessionStarted(info SessionInfo)
	ClipTable(rows []ClipInfo)
	ResizeDecision(summary ResizeSummary)
	CropResult(summary CropSummary)
	Classification(hdr bool)
	TonemapAttemptFailed(info TonemapAttemptInfo)
	TonemapApplied(info TonemapAppliedInfo)
	TonemapFallback(info TonemapFallbackInfo)
	TagsAllocated(tags []string)
	RenderStarted(totalScreenshots int)
	RenderProgress(done, total int)
	RenderComplete(summary RenderSummary)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) SessionStarted(SessionInfo)             {}
func (NullReporter) ClipTable([]ClipInfo)                   {}
func (NullReporter) ResizeDecision(ResizeSummary)           {}
func (NullReporter) CropResult(CropSummary)                 {}
func (NullReporter) Classification(bool)                    {}
func (NullReporter) TonemapAttemptFailed(TonemapAttemptInfo) {}
func (NullReporter) TonemapApplied(TonemapAppliedInfo)      {}
func (NullReporter) TonemapFallback(TonemapFallbackInfo)    {}
func (NullReporter) TagsAllocated([]string)                 {}
func (NullReporter) RenderStarted(int)                      {}
func (NullReporter) RenderProgress(int, int)                {}
func (NullReporter) RenderComplete(RenderSummary)           {}
func (NullReporter) Warning(string)                         {}
func (NullReporter) Error(ReporterError)                    {}
func (NullReporter) OperationComplete(string)               {}
func (NullReporter) Verbose(string)                         {}
