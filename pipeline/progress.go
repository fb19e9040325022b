package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/sourcetrace/core"
)

// ProgressMonitor writes block progress of a run to a writer.
type ProgressMonitor struct {
	noopMonitor

	writer    io.Writer
	total     int
	current   int
	fetched   int
	skipped   int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

var _ Monitor = (*ProgressMonitor)(nil)

// NewProgressMonitor creates a progress monitor.
// writer: where to write progress output (typically os.Stderr)
func NewProgressMonitor(writer io.Writer) *ProgressMonitor {
	return &ProgressMonitor{writer: writer}
}

// Start begins tracking progress.
func (p *ProgressMonitor) Start(_ string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.total = 0
	p.current = 0
	p.fetched = 0
	p.skipped = 0
}

// BlocksSegmented records how many blocks the run will process.
func (p *ProgressMonitor) BlocksSegmented(blocks []core.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = len(blocks)
	if p.started {
		p.report()
	}
}

// SourceFetched counts fetched and skipped sources.
func (p *ProgressMonitor) SourceFetched(_ string, result core.FetchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case result.SkippedAsPDF:
		p.skipped++
	case result.HasText():
		p.fetched++
	}
}

// BlockMatched advances progress by one block.
func (p *ProgressMonitor) BlockMatched(_ core.BlockResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current++
	if p.current > p.total {
		p.current = p.total
	}
	p.report()
}

// Finish prints final progress.
func (p *ProgressMonitor) Finish(_ *core.DocumentResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer) // Print newline after final progress
	p.started = false
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressMonitor) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressMonitor) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d blocks (%.1f%%) - %d sources fetched, %d skipped - %.2f blocks/s",
		p.current, p.total, percentage, p.fetched, p.skipped, rate)
}
