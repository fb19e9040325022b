package evidence

import (
	"encoding/binary"
	"math"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/sourcetrace/textutil"
)

// fingerprintDigestSize is the number of blake2b bytes kept per k-gram.
const fingerprintDigestSize = 6

// FingerprintMatcher measures how much of one text is reproduced in another
// using winnowed character k-gram fingerprints.
type FingerprintMatcher struct {
	k      int
	window int
}

// NewFingerprintMatcher creates a matcher with k-gram length k and the given
// winnowing window. Non-positive values fall back to the defaults.
func NewFingerprintMatcher(k, window int) *FingerprintMatcher {
	def := DefaultConfig()
	if k <= 0 {
		k = def.FingerprintK
	}
	if window <= 0 {
		window = def.FingerprintWindow
	}
	return &FingerprintMatcher{k: k, window: window}
}

// Fingerprints returns the winnowed fingerprint set of text.
// Text shorter than k runes is fingerprinted whole.
func (f *FingerprintMatcher) Fingerprints(text string) map[uint64]struct{} {
	runes := []rune(textutil.Normalize(text))
	out := make(map[uint64]struct{})
	if len(runes) == 0 {
		return out
	}
	h, _ := blake2b.New(fingerprintDigestSize, nil)
	digest := func(rs []rune) uint64 {
		h.Reset()
		h.Write([]byte(string(rs)))
		var buf [8]byte
		copy(buf[:], h.Sum(nil))
		return binary.LittleEndian.Uint64(buf[:])
	}
	if len(runes) < f.k {
		out[digest(runes)] = struct{}{}
		return out
	}

	hashes := make([]uint64, 0, len(runes)-f.k+1)
	for i := 0; i+f.k <= len(runes); i++ {
		hashes = append(hashes, digest(runes[i:i+f.k]))
	}
	if len(hashes) <= f.window {
		out[minHash(hashes)] = struct{}{}
		return out
	}
	for i := 0; i+f.window <= len(hashes); i++ {
		out[minHash(hashes[i:i+f.window])] = struct{}{}
	}
	return out
}

// Coverage returns the percentage in [0, 100] of original's fingerprints
// that also occur in source.
func (f *FingerprintMatcher) Coverage(original, source string) float64 {
	fa := f.Fingerprints(original)
	if len(fa) == 0 {
		return 0
	}
	fb := f.Fingerprints(source)
	shared := 0
	for fp := range fa {
		if _, ok := fb[fp]; ok {
			shared++
		}
	}
	pct := 100 * float64(shared) / float64(len(fa))
	return math.Round(pct*100) / 100
}

func minHash(hashes []uint64) uint64 {
	m := hashes[0]
	for _, h := range hashes[1:] {
		if h < m {
			m = h
		}
	}
	return m
}
