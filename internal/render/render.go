// Package render writes the prepared clips' screenshots to disk. Frame
// materialization happens in the backend, so render jobs run
// concurrently under a worker limit; output files follow the
// <frame><tag>.png convention that tag allocation scans for on the next
// run.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"screengen/internal/errors"
	"screengen/internal/logging"
	"screengen/internal/media"
	"screengen/internal/reporter"
)

// Job pairs a prepared clip with its tag and the frame numbers to
// render. Frames already include any source offset.
type Job struct {
	Clip   media.Clip
	Tag    string
	Frames []int
}

// Renderer renders screenshot jobs into an output directory.
type Renderer struct {
	backend media.Backend
	workers int
	rep     reporter.Reporter
	log     *logging.Logger
}

// New creates a renderer with the given worker limit.
func New(backend media.Backend, workers int, rep reporter.Reporter, log *logging.Logger) *Renderer {
	if workers < 1 {
		workers = 1
	}
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if log == nil {
		log = logging.Global()
	}
	return &Renderer{backend: backend, workers: workers, rep: rep, log: log}
}

// Render writes every job's frames to outDir as <frame><tag>.png. Jobs
// run concurrently up to the worker limit; the first error cancels the
// remaining work and is returned after in-flight renders finish.
func (r *Renderer) Render(ctx context.Context, jobs []Job, outDir string) error {
	total := 0
	for _, job := range jobs {
		total += len(job.Frames)
	}
	r.rep.RenderStarted(total)
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     atomic.Int64
	)
	sem := make(chan struct{}, r.workers)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for _, job := range jobs {
		for _, frame := range job.Frames {
			wg.Add(1)
			go func(clip media.Clip, tag string, frame int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				if ctx.Err() != nil {
					return
				}

				path := filepath.Join(outDir, fmt.Sprintf("%d%s.png", frame, tag))
				if err := r.backend.RenderFrame(ctx, clip, frame, path); err != nil {
					r.log.Error("screenshot render failed", "frame", frame, "tag", tag, "error", err)
					fail(errors.NewRenderError(fmt.Sprintf("rendering frame %d tag %s", frame, tag), err))
					return
				}
				r.rep.RenderProgress(int(done.Add(1)), total)
			}(job.Clip, job.Tag, frame)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return errors.NewCancelledError()
	}

	r.rep.RenderComplete(reporter.RenderSummary{
		Screenshots: total,
		OutputDir:   outDir,
		Elapsed:     time.Since(start),
	})
	return nil
}
