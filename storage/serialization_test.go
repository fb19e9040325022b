package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/core"
)

func strPtr(s string) *string { return &s }

func TestMarshalUnmarshalFetchResult(t *testing.T) {
	tests := []struct {
		name   string
		result core.FetchResult
	}{
		{"text", core.FetchResult{URL: "https://example.com/a", Text: strPtr("Water boils at 100 degrees.")}},
		{"empty text", core.FetchResult{URL: "https://example.com/b", Text: strPtr("")}},
		{"failed fetch", core.FetchResult{URL: "https://example.com/c"}},
		{"skipped binary", core.FetchResult{URL: "https://example.com/d.pdf", SkippedAsPDF: true}},
		{"unicode", core.FetchResult{URL: "https://example.com/ü", Text: strPtr("naïve café – résumé")}},
		{"long text", core.FetchResult{URL: "https://example.com/e", Text: strPtr(strings.Repeat("word ", 4000))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalFetchResult(tt.result)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalFetchResult(data)
			require.NoError(t, err)
			assert.Equal(t, tt.result.URL, decoded.URL)
			assert.Equal(t, tt.result.SkippedAsPDF, decoded.SkippedAsPDF)
			if tt.result.Text == nil {
				assert.Nil(t, decoded.Text)
			} else {
				require.NotNil(t, decoded.Text)
				assert.Equal(t, *tt.result.Text, *decoded.Text)
			}
		})
	}
}

func TestUnmarshalFetchResult_Invalid(t *testing.T) {
	_, err := UnmarshalFetchResult(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)

	data := MarshalFetchResult(core.FetchResult{URL: "https://example.com", Text: strPtr("some text here")})
	_, err = UnmarshalFetchResult(data[:len(data)-4])
	assert.Error(t, err)
}
