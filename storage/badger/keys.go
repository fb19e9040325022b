package badger

import (
	"encoding/binary"

	"github.com/poiesic/sourcetrace/core"
)

// fetchResultPrefix namespaces cached fetch results.
const fetchResultPrefix = "fetres:"

// makeFetchKey derives a fixed-length key from a URL. The stored record
// carries the full URL, so a hash collision reads as a miss.
func makeFetchKey(url string) []byte {
	buf := make([]byte, len(fetchResultPrefix)+8)
	n := copy(buf, fetchResultPrefix)
	binary.BigEndian.PutUint64(buf[n:], uint64(core.IDFromContent(url)))
	return buf
}
