package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/core"
)

func newConsolidator(t *testing.T, mutate ...func(*Options)) *Consolidator {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(opts, nil)
	require.NoError(t, err)
	return c
}

func item(sentence string, typ core.EvidenceType, url string, plag, sem float64) core.EvidenceItem {
	return core.EvidenceItem{
		Sentence:           sentence,
		Type:               typ,
		SourceURL:          url,
		SourceText:         "text from " + url,
		PlagiarismScore:    plag,
		SemanticSimilarity: sem,
	}
}

func TestTopNTruncation(t *testing.T) {
	c := newConsolidator(t)
	const s = "A sentence seen five times."
	var items []core.EvidenceItem
	for i, score := range []float64{0.7, 0.9, 0.5, 0.8, 0.6} {
		items = append(items, item(s, core.EvidenceParaphrase, string(rune('a'+i)), score, score))
	}

	out := c.TopN(items, "Intro. "+s)
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, 5, got.Occurrences)
	require.Len(t, got.Sources, 3)
	assert.Equal(t, 0.9, got.Sources[0].Score)
	assert.Equal(t, 0.8, got.Sources[1].Score)
	assert.Equal(t, 0.7, got.Sources[2].Score)
	assert.Equal(t, 0.8, got.AggregatedScore)
	assert.Equal(t, core.Offsets{Start: 7, End: 7 + len(s)}, got.Sources[0].DocumentOffsets)
}

func TestTopNKeepsSmallGroupsInOrder(t *testing.T) {
	c := newConsolidator(t)
	items := []core.EvidenceItem{
		item("First.", core.EvidenceIdea, "", 0.3, 0),
		item("Second.", core.EvidenceExact, "u1", 0.99, 0.97),
		item("First.", core.EvidenceExact, "u2", 0.99, 0.95),
	}

	out := c.TopN(items, "First. Second.")
	require.Len(t, out, 2)
	assert.Equal(t, "First.", out[0].Sentence)
	assert.Equal(t, "Second.", out[1].Sentence)

	first := out[0]
	assert.Equal(t, 2, first.Occurrences)
	require.Len(t, first.Sources, 2)
	assert.Equal(t, core.EvidenceIdea, first.Sources[0].Type)
	assert.Equal(t, 0.15, first.Sources[0].Score)
	assert.Equal(t, 0.97, first.Sources[1].Score)
	assert.Equal(t, 0.56, first.AggregatedScore)
}

func TestTopNCollapsesRepeatedFindings(t *testing.T) {
	c := newConsolidator(t)
	const s = "Water boils at 100 degrees Celsius at sea level."
	items := []core.EvidenceItem{
		item(s, core.EvidenceExact, "boiling", 0.99, 0.95),
		item(s, core.EvidenceExact, "other", 0.99, 0.90),
		item(s, core.EvidenceExact, "boiling", 0.99, 0.97),
	}

	out := c.TopN(items, s)
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, 2, got.Occurrences)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "boiling", got.Sources[0].SourceURL)
	assert.Equal(t, 0.98, got.Sources[0].Score)
	assert.Equal(t, "other", got.Sources[1].SourceURL)

	verdicts := newConsolidator(t, func(o *Options) { o.Mode = ModePriority }).Priority(items, s)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "boiling", verdicts[0].SourceURL)
}

func TestTopNIdempotent(t *testing.T) {
	c := newConsolidator(t)
	items := []core.EvidenceItem{
		item("One.", core.EvidenceExact, "a", 0.99, 0.9),
		item("One.", core.EvidenceParaphrase, "b", 0.5, 0.6),
		item("Two.", core.EvidenceIdea, "", 0.3, 0),
	}
	snapshot := append([]core.EvidenceItem(nil), items...)

	first := c.TopN(items, "One. Two.")
	second := c.TopN(items, "One. Two.")
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, items)
}

func TestUnlocatedSentinel(t *testing.T) {
	c := newConsolidator(t)
	out := c.TopN([]core.EvidenceItem{item("Reflowed sentence.", core.EvidenceIdea, "", 0.3, 0)}, "Different raw text.")
	require.Len(t, out, 1)
	assert.Equal(t, core.Unlocated, out[0].Sources[0].DocumentOffsets)
}

func TestAttachedOffsetsWin(t *testing.T) {
	c := newConsolidator(t)
	it := item("Repeated.", core.EvidenceIdea, "", 0.3, 0)
	it.DocumentOffsets = &core.Offsets{Start: 10, End: 19}
	out := c.TopN([]core.EvidenceItem{it}, "Repeated. Repeated.")
	assert.Equal(t, core.Offsets{Start: 10, End: 19}, out[0].Sources[0].DocumentOffsets)
}

func TestMapOffsets(t *testing.T) {
	raw := "Water boils at 100 degrees. Ice melts at 0 degrees."
	assert.Equal(t, core.Offsets{Start: 0, End: 27}, MapOffsets(raw, "Water boils at 100 degrees."))
	assert.Equal(t, core.Offsets{Start: 28, End: 51}, MapOffsets(raw, "Ice melts at 0 degrees."))
	assert.Equal(t, core.Unlocated, MapOffsets(raw, "Steam rises."))
	assert.Equal(t, core.Unlocated, MapOffsets(raw, ""))
}

func TestPriority(t *testing.T) {
	c := newConsolidator(t, func(o *Options) { o.Mode = ModePriority })

	tests := []struct {
		name    string
		items   []core.EvidenceItem
		wantURL string
	}{
		{
			name: "exact beats everything, highest semantic wins",
			items: []core.EvidenceItem{
				item("S.", core.EvidenceParaphrase, "para", 0.95, 0.95),
				item("S.", core.EvidenceExact, "low", 0.99, 0.80),
				item("S.", core.EvidenceExact, "high", 0.99, 0.90),
			},
			wantURL: "high",
		},
		{
			name: "confident paraphrase beats a higher scoring plain one",
			items: []core.EvidenceItem{
				item("S.", core.EvidenceParaphrase, "plain", 0.89, 0.84),
				item("S.", core.EvidenceParaphrase, "confident", 0.45, 0.86),
			},
			wantURL: "confident",
		},
		{
			name: "plain paraphrase beats idea",
			items: []core.EvidenceItem{
				item("S.", core.EvidenceIdea, "", 0.3, 0),
				item("S.", core.EvidenceParaphrase, "para", 0.5, 0.5),
			},
			wantURL: "para",
		},
		{
			name: "idea as last resort",
			items: []core.EvidenceItem{
				item("S.", core.EvidenceIdea, "", 0.3, 0),
			},
			wantURL: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Priority(tt.items, "S.")
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantURL, out[0].SourceURL)
			assert.Equal(t, core.Offsets{Start: 0, End: 2}, out[0].DocumentOffsets)
		})
	}
}

func TestPriorityBlocks(t *testing.T) {
	c := newConsolidator(t, func(o *Options) { o.Mode = ModePriority })
	blocks := []core.BlockResult{
		{BlockID: "block_0", Evidence: []core.EvidenceItem{item("Shared.", core.EvidenceIdea, "", 0.3, 0)}},
		{BlockID: "block_1", Evidence: []core.EvidenceItem{
			item("Shared.", core.EvidenceExact, "u", 0.99, 0.99),
			item("Only here.", core.EvidenceIdea, "", 0.3, 0),
		}},
	}
	out := c.PriorityBlocks(blocks, "Shared. Only here.")
	require.Len(t, out, 2)
	assert.Equal(t, "block_1", out[0].BlockID)
	assert.Equal(t, core.EvidenceExact, out[0].Type)
	assert.Equal(t, "block_1", out[1].BlockID)

	sentences := c.TopNBlocks(blocks, "Shared. Only here.")
	require.Len(t, sentences, 2)
	assert.Equal(t, 2, sentences[0].Occurrences)
}

func TestOptions(t *testing.T) {
	m, err := ParseMode(" Priority ")
	require.NoError(t, err)
	assert.Equal(t, ModePriority, m)

	_, err = ParseMode("best")
	assert.ErrorIs(t, err, ErrInvalidMode)

	opts := DefaultOptions()
	opts.MaxSources = 0
	_, err = New(opts, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.MaxOccurrences = opts.MaxSources + 1
	_, err = New(opts, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.MaxOccurrences = opts.MaxSources
	_, err = New(opts, nil)
	assert.NoError(t, err)
}
