package consolidate

import (
	"log/slog"
	"sort"

	"github.com/poiesic/sourcetrace/core"
)

// Consolidator applies a consolidation policy. It holds no mutable state,
// so repeated calls on the same input return identical output.
type Consolidator struct {
	opts   Options
	logger *slog.Logger
}

// New creates a consolidator. A nil logger falls back to slog.Default.
func New(opts Options, logger *slog.Logger) (*Consolidator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{opts: opts, logger: logger.With("component", "consolidate")}, nil
}

// Mode returns the configured policy.
func (c *Consolidator) Mode() Mode {
	return c.opts.Mode
}

// Score is the per-occurrence score of an evidence item.
func Score(item core.EvidenceItem) float64 {
	return core.Round4((item.SemanticSimilarity + item.PlagiarismScore) / 2)
}

// tagged is an evidence item with the block it came from.
type tagged struct {
	blockID string
	item    core.EvidenceItem
}

// group collects items by exact sentence text in first-seen order.
func group(items []tagged) ([]string, map[string][]tagged) {
	var order []string
	groups := make(map[string][]tagged)
	for _, it := range items {
		s := it.item.Sentence
		if _, ok := groups[s]; !ok {
			order = append(order, s)
		}
		groups[s] = append(groups[s], it)
	}
	return order, groups
}

type evidenceKey struct {
	sentence string
	url      string
	typ      core.EvidenceType
}

// dedupe keeps one item per (sentence, source URL, evidence type), the
// highest scoring one, at the position of the first.
func dedupe(items []tagged) []tagged {
	index := make(map[evidenceKey]int, len(items))
	out := make([]tagged, 0, len(items))
	for _, it := range items {
		key := evidenceKey{it.item.Sentence, it.item.SourceURL, it.item.Type}
		if i, ok := index[key]; ok {
			if Score(it.item) > Score(out[i].item) {
				out[i] = it
			}
			continue
		}
		index[key] = len(out)
		out = append(out, it)
	}
	return out
}

func untagged(items []core.EvidenceItem) []tagged {
	out := make([]tagged, len(items))
	for i, it := range items {
		out[i] = tagged{item: it}
	}
	return out
}

func flatten(blocks []core.BlockResult) []tagged {
	var out []tagged
	for _, b := range blocks {
		for _, it := range b.Evidence {
			out = append(out, tagged{blockID: b.BlockID, item: it})
		}
	}
	return out
}

// offsetsFor prefers offsets already attached to the item.
func (c *Consolidator) offsetsFor(raw string, item core.EvidenceItem) core.Offsets {
	if item.DocumentOffsets != nil {
		return *item.DocumentOffsets
	}
	off := MapOffsets(raw, item.Sentence)
	if !off.Located() {
		c.logger.Debug("sentence not found in raw text", "sentence", item.Sentence)
	}
	return off
}

// TopN groups items by sentence and keeps the best sources of each.
// Repeated findings of one sentence against one source with one evidence
// type count once.
// A sentence with at most MaxOccurrences items keeps all of them; otherwise
// the MaxSources highest scores survive, ties keeping input order.
func (c *Consolidator) TopN(items []core.EvidenceItem, raw string) []core.CleanedSentence {
	return c.topN(untagged(items), raw)
}

func (c *Consolidator) topN(items []tagged, raw string) []core.CleanedSentence {
	order, groups := group(dedupe(items))
	out := make([]core.CleanedSentence, 0, len(order))
	for _, sentence := range order {
		members := groups[sentence]
		sources := make([]core.CleanedSource, len(members))
		for i, m := range members {
			sources[i] = core.CleanedSource{
				SourceText:      m.item.SourceText,
				SourceURL:       m.item.SourceURL,
				Type:            m.item.Type,
				Score:           Score(m.item),
				DocumentOffsets: c.offsetsFor(raw, m.item),
			}
		}
		if len(sources) > c.opts.MaxOccurrences {
			sort.SliceStable(sources, func(i, j int) bool {
				return sources[i].Score > sources[j].Score
			})
			if len(sources) > c.opts.MaxSources {
				sources = sources[:c.opts.MaxSources]
			}
		}
		var sum float64
		for _, s := range sources {
			sum += s.Score
		}
		out = append(out, core.CleanedSentence{
			Sentence:        sentence,
			Sources:         sources,
			Occurrences:     len(members),
			AggregatedScore: core.Round4(sum / float64(len(sources))),
		})
	}
	return out
}

// TopNBlocks is TopN over the evidence of every block in order.
func (c *Consolidator) TopNBlocks(blocks []core.BlockResult, raw string) []core.CleanedSentence {
	return c.topN(flatten(blocks), raw)
}

// Priority picks one verdict per sentence. Block ids are left empty.
func (c *Consolidator) Priority(items []core.EvidenceItem, raw string) []core.Verdict {
	return c.priority(untagged(items), raw)
}

// PriorityBlocks is Priority over every block's evidence; each verdict
// carries the id of the block its chosen item came from.
func (c *Consolidator) PriorityBlocks(blocks []core.BlockResult, raw string) []core.Verdict {
	return c.priority(flatten(blocks), raw)
}

func (c *Consolidator) priority(items []tagged, raw string) []core.Verdict {
	order, groups := group(dedupe(items))
	out := make([]core.Verdict, 0, len(order))
	for _, sentence := range order {
		best := c.pick(groups[sentence])
		out = append(out, core.Verdict{
			BlockID:            best.blockID,
			Sentence:           sentence,
			Type:               best.item.Type,
			SourceURL:          best.item.SourceURL,
			SourceText:         best.item.SourceText,
			PlagiarismScore:    best.item.PlagiarismScore,
			SemanticSimilarity: best.item.SemanticSimilarity,
			DocumentOffsets:    c.offsetsFor(raw, best.item),
		})
	}
	return out
}

// Tiers, strongest first.
const (
	tierExact = iota
	tierConfidentParaphrase
	tierParaphrase
	tierIdea
	tierOther
)

func (c *Consolidator) tier(item core.EvidenceItem) int {
	switch item.Type {
	case core.EvidenceExact:
		return tierExact
	case core.EvidenceParaphrase:
		if item.SemanticSimilarity >= c.opts.HighSemantic || item.PlagiarismScore >= c.opts.HighPlagiarism {
			return tierConfidentParaphrase
		}
		return tierParaphrase
	case core.EvidenceIdea:
		return tierIdea
	default:
		return tierOther
	}
}

// pick returns the member of the strongest tier with the highest semantic
// similarity, the earliest one on ties. Plain paraphrases rank by Score.
func (c *Consolidator) pick(members []tagged) tagged {
	best := members[0]
	bestTier := c.tier(best.item)
	for _, m := range members[1:] {
		t := c.tier(m.item)
		switch {
		case t < bestTier:
			best, bestTier = m, t
		case t == bestTier && c.better(t, m.item, best.item):
			best = m
		}
	}
	return best
}

func (c *Consolidator) better(tier int, a, b core.EvidenceItem) bool {
	if tier == tierParaphrase {
		return Score(a) > Score(b)
	}
	return a.SemanticSimilarity > b.SemanticSimilarity
}
