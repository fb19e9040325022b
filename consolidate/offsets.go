package consolidate

import (
	"strings"

	"github.com/poiesic/sourcetrace/core"
)

// MapOffsets locates the first literal occurrence of sentence in raw.
// It returns core.Unlocated when the sentence does not appear verbatim.
func MapOffsets(raw, sentence string) core.Offsets {
	if sentence == "" {
		return core.Unlocated
	}
	idx := strings.Index(raw, sentence)
	if idx < 0 {
		return core.Unlocated
	}
	return core.Offsets{Start: idx, End: idx + len(sentence)}
}
