package segment

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeText builds n words grouped into sentences of sentenceLen words.
func makeText(n, sentenceLen int) string {
	words := make([]string, n)
	for i := range words {
		w := fmt.Sprintf("w%d", i)
		if (i+1)%sentenceLen == 0 || i == n-1 {
			w += "."
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero target", func(o *Options) { o.TargetWords = 0 }},
		{"overlap of one", func(o *Options) { o.Overlap = 1 }},
		{"negative expand", func(o *Options) { o.MaxExpand = -1 }},
		{"min above max", func(o *Options) { o.MinWords = 500 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}

func TestChunk(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, Chunk("  \n ", DefaultOptions()))
		assert.Empty(t, Segment("", DefaultOptions()))
	})

	t.Run("ids follow the chunk pattern", func(t *testing.T) {
		pattern := regexp.MustCompile(`^chunk_\d+_[0-9a-f]{8}$`)
		chunks := Chunk(makeText(400, 10), DefaultOptions())
		require.NotEmpty(t, chunks)
		for i, c := range chunks {
			assert.Regexp(t, pattern, c.ID)
			assert.True(t, strings.HasPrefix(c.ID, fmt.Sprintf("chunk_%d_", i+1)))
		}
	})

	t.Run("windows overlap by the configured ratio", func(t *testing.T) {
		chunks := Chunk(makeText(1000, 10), DefaultOptions())
		require.Greater(t, len(chunks), 2)
		assert.Equal(t, 0, chunks[0].StartWord)
		assert.Equal(t, 105, chunks[1].StartWord)
		assert.Equal(t, 150, chunks[0].WordCount)
	})

	t.Run("window extends to finish a sentence", func(t *testing.T) {
		opts := Options{TargetWords: 10, Overlap: 0, MaxExpand: 5, MinWords: 1, MaxWords: 100}
		chunks := Chunk(makeText(24, 12), opts)
		require.NotEmpty(t, chunks)
		assert.Equal(t, 12, chunks[0].EndWord)
		assert.True(t, strings.HasSuffix(chunks[0].Text, "w11."))
	})

	t.Run("window keeps its end when no terminator is near", func(t *testing.T) {
		opts := Options{TargetWords: 10, Overlap: 0, MaxExpand: 2, MinWords: 1, MaxWords: 100}
		chunks := Chunk(makeText(40, 20), opts)
		require.NotEmpty(t, chunks)
		assert.Equal(t, 10, chunks[0].EndWord)
	})

	t.Run("last chunk reaches end of text", func(t *testing.T) {
		text := makeText(1000, 10)
		chunks := Chunk(text, DefaultOptions())
		assert.Equal(t, 1000, chunks[len(chunks)-1].EndWord)
	})
}

func TestMergeBlocksCoverage(t *testing.T) {
	for _, n := range []int{1, 37, 150, 499, 1000, 2345} {
		t.Run(fmt.Sprintf("%d words", n), func(t *testing.T) {
			chunks := Chunk(makeText(n, 10), DefaultOptions())
			blocks := MergeBlocks(chunks, DefaultOptions())
			require.NotEmpty(t, blocks)

			ranges := make(map[string]core.Chunk, len(chunks))
			for _, c := range chunks {
				ranges[c.ID] = c
			}
			covered := make([]bool, n)
			for _, b := range blocks {
				for _, id := range b.SourceChunkIDs {
					c, ok := ranges[id]
					require.True(t, ok, "unknown chunk id %s", id)
					for i := c.StartWord; i < c.EndWord; i++ {
						covered[i] = true
					}
				}
			}
			for i, ok := range covered {
				assert.True(t, ok, "word %d not covered", i)
			}
		})
	}
}

func TestMergeBlocksBounds(t *testing.T) {
	opts := DefaultOptions()
	blocks := Segment(makeText(3000, 10), opts)
	require.Greater(t, len(blocks), 1)
	for i, b := range blocks {
		assert.Equal(t, fmt.Sprintf("block_%d", i), b.ID)
		assert.LessOrEqual(t, b.WordCount, opts.MaxWords)
		if i < len(blocks)-1 {
			assert.GreaterOrEqual(t, b.WordCount, opts.MinWords)
		}
	}
}

func TestMergeBlocksOversizedSentence(t *testing.T) {
	opts := Options{TargetWords: 600, Overlap: 0.3, MaxExpand: 40, MinWords: 200, MaxWords: 400}
	text := makeText(500, 1000)
	blocks := Segment(text, opts)
	require.Len(t, blocks, 1)
	assert.Equal(t, 500, blocks[0].WordCount)
	assert.Len(t, blocks[0].SourceChunkIDs, 1)
}

func TestMergeBlocksSplitsOversizedChunk(t *testing.T) {
	opts := Options{TargetWords: 900, Overlap: 0, MaxExpand: 0, MinWords: 200, MaxWords: 400}
	chunks := Chunk(makeText(900, 50), opts)
	require.Len(t, chunks, 1)

	blocks := MergeBlocks(chunks, opts)
	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.Equal(t, []string{chunks[0].ID}, b.SourceChunkIDs)
		assert.LessOrEqual(t, b.WordCount, 400)
	}
	assert.Equal(t, 0, blocks[0].StartWord)
	assert.Equal(t, 400, blocks[0].EndWord)
	assert.Equal(t, 900, blocks[2].EndWord)
}

func TestMergeBlocksFoldsUndersized(t *testing.T) {
	chunks := []core.Chunk{
		{ID: "a", Text: "a", WordCount: 50, StartWord: 0, EndWord: 50},
		{ID: "b", Text: "b", WordCount: 380, StartWord: 50, EndWord: 430},
		{ID: "c", Text: "c", WordCount: 60, StartWord: 430, EndWord: 490},
		{ID: "d", Text: "d", WordCount: 70, StartWord: 490, EndWord: 560},
	}
	blocks := MergeBlocks(chunks, DefaultOptions())
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"a"}, blocks[0].SourceChunkIDs, "folding into b would exceed max words")
	assert.Equal(t, 50, blocks[0].WordCount)
	assert.Equal(t, []string{"b"}, blocks[1].SourceChunkIDs)
	assert.Equal(t, []string{"c", "d"}, blocks[2].SourceChunkIDs)
	assert.Equal(t, 130, blocks[2].WordCount)
	assert.Equal(t, "block_2", blocks[2].ID)
}

func TestFoldUndersizedRespectsMaxWords(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name   string
		blocks []core.Block
		want   []int
	}{
		{
			name: "forward fold within bound",
			blocks: []core.Block{
				{Text: "a", WordCount: 100, StartWord: 0, EndWord: 100},
				{Text: "b", WordCount: 250, StartWord: 100, EndWord: 350},
			},
			want: []int{350},
		},
		{
			name: "forward fold would overflow",
			blocks: []core.Block{
				{Text: "a", WordCount: 100, StartWord: 0, EndWord: 100},
				{Text: "b", WordCount: 350, StartWord: 100, EndWord: 450},
			},
			want: []int{100, 350},
		},
		{
			name: "backward fold when successor is full",
			blocks: []core.Block{
				{Text: "a", WordCount: 250, StartWord: 0, EndWord: 250},
				{Text: "b", WordCount: 100, StartWord: 250, EndWord: 350},
				{Text: "c", WordCount: 390, StartWord: 350, EndWord: 740},
			},
			want: []int{350, 390},
		},
		{
			name: "overlapping words count once",
			blocks: []core.Block{
				{Text: "w1 w2 w3", WordCount: 150, StartWord: 0, EndWord: 150},
				{Text: "w3 w4", WordCount: 300, StartWord: 100, EndWord: 400},
			},
			want: []int{400},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, b := range foldUndersized(tt.blocks, opts.MinWords, opts.MaxWords) {
				got = append(got, b.WordCount)
				assert.LessOrEqual(t, b.WordCount, opts.MaxWords)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeBlocksDoesNotRepeatOverlap(t *testing.T) {
	opts := DefaultOptions()
	text := makeText(600, 10)
	for _, b := range Segment(text, opts) {
		words := strings.Fields(b.Text)
		assert.Equal(t, b.EndWord-b.StartWord, len(words), "block %s", b.ID)
		assert.Equal(t, len(words), b.WordCount, "block %s", b.ID)
		assert.Equal(t, strings.Join(strings.Fields(text)[b.StartWord:b.EndWord], " "), b.Text)
	}
}

func TestSplitSections(t *testing.T) {
	text := "Preamble line.\n\nAbstract\nWe study things.\n\n1. Introduction\nThings matter.\n\nII. METHODS:\nWe measured.\n\nReferences\n[1] A paper."
	sections := SplitSections(text)
	require.Len(t, sections, 5)
	assert.Equal(t, "body", sections[0].Name)
	assert.Equal(t, "abstract", sections[1].Name)
	assert.Equal(t, "We study things.", sections[1].Text)
	assert.Equal(t, "introduction", sections[2].Name)
	assert.Equal(t, "methods", sections[3].Name)
	assert.Equal(t, "references", sections[4].Name)
}

func TestSplitSectionsWithoutHeadings(t *testing.T) {
	sections := SplitSections("Just one paragraph. With two sentences.")
	require.Len(t, sections, 1)
	assert.Equal(t, DefaultSection, sections[0].Name)
}

func TestSegmentDocument(t *testing.T) {
	doc := core.Document{
		ID: "doc",
		Sections: []core.Section{
			{Name: "intro", Text: makeText(300, 10)},
			{Text: makeText(300, 10)},
		},
	}
	blocks := SegmentDocument(doc, DefaultOptions())
	require.Len(t, blocks, 2)
	assert.Equal(t, "block_0", blocks[0].ID)
	assert.Equal(t, "intro", blocks[0].Section)
	assert.Equal(t, "block_1", blocks[1].ID)
	assert.Equal(t, DefaultSection, blocks[1].Section)
}

func TestAssignSentencesOwnsEachSentenceOnce(t *testing.T) {
	opts := Options{TargetWords: 30, Overlap: 0.3, MaxExpand: 10, MinWords: 20, MaxWords: 60}
	text := makeText(260, 10)
	blocks := Segment(text, opts)
	require.Greater(t, len(blocks), 2)
	AssignSentences(text, blocks)

	var got []string
	for _, b := range blocks {
		require.NotNil(t, b.Sentences, "block %s", b.ID)
		for _, s := range b.Sentences {
			assert.True(t, strings.HasSuffix(s, "."), "fragment %q in %s", s, b.ID)
			assert.Len(t, strings.Fields(s), 10, "fragment %q in %s", s, b.ID)
		}
		got = append(got, b.Sentences...)
	}
	var want []string
	for _, s := range textutil.SplitSentences(text) {
		want = append(want, s.Text)
	}
	assert.Equal(t, want, got)
}

func TestSegmentDocumentAssignsSentences(t *testing.T) {
	doc := core.Document{ID: "doc", Text: makeText(260, 10)}
	blocks := SegmentDocument(doc, DefaultOptions())
	require.NotEmpty(t, blocks)
	total := 0
	for _, b := range blocks {
		total += len(b.Sentences)
	}
	assert.Equal(t, 26, total)
}
