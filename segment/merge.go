package segment

import (
	"fmt"
	"strings"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
)

// MergeBlocks folds consecutive chunks into blocks of at most MaxWords words.
// Words shared by overlapping chunks of one block appear once in its text
// and count once toward its size.
//
// A chunk larger than MaxWords is re-split at sentence boundaries; a single
// sentence longer than MaxWords becomes a block of its own. Blocks smaller
// than MinWords are folded into their successor, or into their predecessor
// when the successor has no room, as long as the result stays within
// MaxWords. Block ids are "block_<i>", numbered from zero.
func MergeBlocks(chunks []core.Chunk, opts Options) []core.Block {
	var (
		blocks  []core.Block
		current *core.Block
		texts   []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(texts, " ")
		blocks = append(blocks, *current)
		current, texts = nil, nil
	}

	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if c.WordCount > opts.MaxWords {
			flush()
			blocks = append(blocks, splitOversized(c, opts.MaxWords)...)
			continue
		}
		skip := 0
		if current != nil {
			skip = overlap(current.EndWord, c.StartWord, c.WordCount)
			if current.WordCount+c.WordCount-skip > opts.MaxWords {
				flush()
				skip = 0
			}
		}
		if current == nil {
			current = &core.Block{StartWord: c.StartWord, EndWord: c.EndWord}
		}
		// words already carried by the previous chunk are not repeated
		if skip > 0 {
			words := strings.Fields(text)
			text = strings.Join(words[min(skip, len(words)):], " ")
		}
		if text != "" {
			texts = append(texts, text)
		}
		current.SourceChunkIDs = append(current.SourceChunkIDs, c.ID)
		current.WordCount += c.WordCount - skip
		current.EndWord = max(current.EndWord, c.EndWord)
	}
	flush()

	return renumber(foldUndersized(blocks, opts.MinWords, opts.MaxWords))
}

// splitOversized cuts one chunk into sentence-aligned pieces of at most limit
// words. Every piece keeps the chunk's id for traceability.
func splitOversized(c core.Chunk, limit int) []core.Block {
	var (
		pieces []core.Block
		texts  []string
		wc     int
		first  int
	)
	emit := func(endWord int) {
		if len(texts) == 0 {
			return
		}
		pieces = append(pieces, core.Block{
			Text:           strings.Join(texts, " "),
			SourceChunkIDs: []string{c.ID},
			WordCount:      wc,
			StartWord:      c.StartWord + first,
			EndWord:        c.StartWord + endWord,
		})
		texts, wc = nil, 0
	}

	pos := 0
	for _, s := range textutil.SplitSentences(c.Text) {
		sw := len(textutil.Words(s.Text))
		if wc+sw > limit && len(texts) > 0 {
			emit(pos)
		}
		if len(texts) == 0 {
			first = pos
		}
		texts = append(texts, s.Text)
		wc += sw
		pos += sw
	}
	emit(pos)
	return pieces
}

// foldUndersized merges every block below minWords with its successor,
// repeating until the merged block is large enough or no successor fits.
// A block that cannot grow forward is folded into the block before it when
// that stays within maxWords; otherwise it is kept as is.
func foldUndersized(blocks []core.Block, minWords, maxWords int) []core.Block {
	merged := make([]core.Block, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		blk := blocks[i]
		for blk.WordCount < minWords && i+1 < len(blocks) && joinedWords(blk, blocks[i+1]) <= maxWords {
			i++
			blk = join(blk, blocks[i])
		}
		if n := len(merged); blk.WordCount < minWords && n > 0 && joinedWords(merged[n-1], blk) <= maxWords {
			merged[n-1] = join(merged[n-1], blk)
			continue
		}
		merged = append(merged, blk)
	}
	return merged
}

// overlap is how many leading words of a span starting at start are already
// covered by a span ending at end, capped at size.
func overlap(end, start, size int) int {
	return min(max(end-start, 0), size)
}

func joinedWords(a, b core.Block) int {
	return a.WordCount + b.WordCount - overlap(a.EndWord, b.StartWord, b.WordCount)
}

func join(a, b core.Block) core.Block {
	ids := make([]string, 0, len(a.SourceChunkIDs)+len(b.SourceChunkIDs))
	ids = append(ids, a.SourceChunkIDs...)
	ids = append(ids, b.SourceChunkIDs...)
	words := strings.Fields(b.Text)
	tail := strings.Join(words[min(overlap(a.EndWord, b.StartWord, b.WordCount), len(words)):], " ")
	return core.Block{
		Section:        a.Section,
		Text:           strings.TrimSpace(a.Text + " " + tail),
		SourceChunkIDs: ids,
		WordCount:      joinedWords(a, b),
		StartWord:      min(a.StartWord, b.StartWord),
		EndWord:        max(a.EndWord, b.EndWord),
	}
}

func renumber(blocks []core.Block) []core.Block {
	for i := range blocks {
		blocks[i].ID = fmt.Sprintf("block_%d", i)
	}
	return blocks
}
