package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) SessionStarted(info SessionInfo) {
	for _, r := range c.reporters {
		r.SessionStarted(info)
	}
}

func (c *CompositeReporter) ClipTable(rows []ClipInfo) {
	for _, r := range c.reporters {
		r.ClipTable(rows)
	}
}

func (c *CompositeReporter) ResizeDecision(summary ResizeSummary) {
	for _, r := range c.reporters {
		r.ResizeDecision(summary)
	}
}

func (c *CompositeReporter) CropResult(summary CropSummary) {
	for _, r := range c.reporters {
		r.CropResult(summary)
	}
}

func (c *CompositeReporter) Classification(hdr bool) {
	for _, r := range c.reporters {
		r.Classification(hdr)
	}
}

func (c *CompositeReporter) TonemapAttemptFailed(info TonemapAttemptInfo) {
	for _, r := range c.reporters {
		r.TonemapAttemptFailed(info)
	}
}

func (c *CompositeReporter) TonemapApplied(info TonemapAppliedInfo) {
	for _, r := range c.reporters {
		r.TonemapApplied(info)
	}
}

func (c *CompositeReporter) TonemapFallback(info TonemapFallbackInfo) {
	for _, r := range c.reporters {
		r.TonemapFallback(info)
	}
}

func (c *CompositeReporter) TagsAllocated(tags []string) {
	for _, r := range c.reporters {
		r.TagsAllocated(tags)
	}
}

func (c *CompositeReporter) RenderStarted(totalScreenshots int) {
	for _, r := range c.reporters {
		r.RenderStarted(totalScreenshots)
	}
}

func (c *CompositeReporter) RenderProgress(done, total int) {
	for _, r := range c.reporters {
		r.RenderProgress(done, total)
	}
}

func (c *CompositeReporter) RenderComplete(summary RenderSummary) {
	for _, r := range c.reporters {
		r.RenderComplete(summary)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
