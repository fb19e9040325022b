package segment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
)

// Chunk windows the words of text into overlapping chunks.
//
// Each window holds TargetWords words and advances by TargetWords minus the
// overlap. A window that ends mid-sentence is extended word by word, up to
// MaxExpand words, until it includes a sentence terminator; when none is
// found in that range the window keeps its original end.
func Chunk(text string, opts Options) []core.Chunk {
	words := textutil.Words(text)
	n := len(words)
	if n == 0 {
		return nil
	}

	var chunks []core.Chunk
	step := opts.step()
	for start, counter := 0, 1; start < n; start, counter = start+step, counter+1 {
		end := min(start+opts.TargetWords, n)
		if end < n && !textutil.EndsSentence(words[end-1]) {
			limit := min(end+opts.MaxExpand, n)
			for k := end; k < limit; k++ {
				if textutil.EndsSentence(words[k]) {
					end = k + 1
					break
				}
			}
		}

		chunks = append(chunks, core.Chunk{
			ID:        newChunkID(counter),
			Text:      strings.Join(words[start:end], " "),
			WordCount: end - start,
			StartWord: start,
			EndWord:   end,
		})

		if end == n {
			break
		}
	}
	return chunks
}

func newChunkID(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("chunk_%d_%s", n, hex[:8])
}
