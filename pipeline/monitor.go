package pipeline

import (
	"github.com/poiesic/sourcetrace/core"
)

// Monitor provides hooks to observe a document run.
// Block-level hooks are called from concurrent goroutines, so
// implementations must be safe for concurrent use.
type Monitor interface {
	Start(docID string)
	BlocksSegmented(blocks []core.Block)
	CandidatesRetrieved(blockID string, query core.Query, candidates []core.Candidate)
	SourceFetched(blockID string, result core.FetchResult)
	BlockMatched(result core.BlockResult)
	Finish(result *core.DocumentResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                                 {}
func (n *noopMonitor) BlocksSegmented(_ []core.Block)                                 {}
func (n *noopMonitor) CandidatesRetrieved(_ string, _ core.Query, _ []core.Candidate) {}
func (n *noopMonitor) SourceFetched(_ string, _ core.FetchResult)                     {}
func (n *noopMonitor) BlockMatched(_ core.BlockResult)                                {}
func (n *noopMonitor) Finish(_ *core.DocumentResult)                                  {}
