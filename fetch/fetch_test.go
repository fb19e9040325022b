package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/storage/memory"
)

const mainPage = `<html><head><title>T</title><style>body{}</style></head><body>
<nav>Home | About</nav>
<main><h1>Boiling</h1><p>Water boils at 100 degrees Celsius at sea level.</p>
<script>var x = 1;</script><p>Altitude lowers the boiling point.</p></main>
<footer>Copyright</footer></body></html>`

const articlePage = `<html><body><div id="side"><p>Short.</p></div>
<div id="story"><p>The first long paragraph of the story goes here.</p>
<p>The second paragraph continues with more words.</p></div></body></html>`

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(memory.NewFetchCache(), opts...)
	require.NoError(t, err)
	return m
}

func TestMainContentExtractor(t *testing.T) {
	text, err := NewMainContentExtractor().Extract(Document{ContentType: "text/html", Body: []byte(mainPage)})
	require.NoError(t, err)
	assert.Contains(t, text, "Water boils at 100 degrees Celsius at sea level.")
	assert.Contains(t, text, "Altitude lowers the boiling point.")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "var x")

	text, err = NewMainContentExtractor().Extract(Document{ContentType: "text/html", Body: []byte(articlePage)})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = NewMainContentExtractor().Extract(Document{ContentType: "application/pdf", Body: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestArticleExtractor(t *testing.T) {
	text, err := NewArticleExtractor().Extract(Document{ContentType: "text/html; charset=utf-8", Body: []byte(articlePage)})
	require.NoError(t, err)
	assert.Equal(t, "The first long paragraph of the story goes here.\nThe second paragraph continues with more words.", text)

	text, err = NewArticleExtractor().Extract(Document{ContentType: "text/html", Body: []byte("<html><body><span>No paragraphs</span></body></html>")})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestStripExtractor(t *testing.T) {
	text, err := NewStripExtractor().Extract(Document{ContentType: "text/html", Body: []byte("<div>Fish &amp; chips<script>evil()</script></div>")})
	require.NoError(t, err)
	assert.Equal(t, "Fish & chips", strings.TrimSpace(strings.Join(strings.Fields(text), " ")))

	text, err = NewStripExtractor().Extract(Document{ContentType: "text/plain", Body: []byte("a <b> c")})
	require.NoError(t, err)
	assert.Equal(t, "a <b> c", text)
}

func TestExtractorChainOrder(t *testing.T) {
	chain := DefaultExtractors(false)
	names := make([]string, len(chain))
	for i, ex := range chain {
		names[i] = ex.Name()
	}
	assert.Equal(t, []string{"main-content", "article", "strip"}, names)

	chain = DefaultExtractors(true)
	assert.Equal(t, "pdf", chain[2].Name())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"main wins", mainPage, "main-content"},
		{"article next", articlePage, "article"},
		{"strip last", "<html><body><span>Only spans here</span></body></html>", "strip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := runChain(DefaultExtractors(false), Document{ContentType: "text/html", Body: []byte(tt.body)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPDFExtractor(t *testing.T) {
	_, err := NewPDFExtractor().Extract(Document{ContentType: "text/html", Body: []byte("<p>x</p>")})
	assert.ErrorIs(t, err, ErrNotApplicable)

	_, err = NewPDFExtractor().Extract(Document{ContentType: "application/pdf", Body: []byte("%PDF-garbage")})
	assert.Error(t, err)
}

func TestBinaryDetection(t *testing.T) {
	assert.True(t, IsBinaryURL("https://example.com/paper.PDF"))
	assert.True(t, IsBinaryURL("https://example.com/slides.pptx?dl=1"))
	assert.False(t, IsBinaryURL("https://example.com/pdf-guide"))
	assert.False(t, IsBinaryURL("https://example.com/page.html"))

	assert.True(t, IsBinaryContentType("application/pdf"))
	assert.True(t, IsBinaryContentType("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.False(t, IsBinaryContentType("text/html; charset=utf-8"))
}

func TestFinalizeText(t *testing.T) {
	assert.Equal(t, "a b c", finalizeText("  a\n\n b \t c ", 100))
	assert.Equal(t, "héllo", finalizeText("héllo world", 5))
}

func TestFetch(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/page":
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, mainPage)
		case "/binary":
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, "%PDF-1.4")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := newTestManager(t)
	ctx := context.Background()

	res := m.Fetch(ctx, srv.URL+"/page")
	require.True(t, res.HasText())
	assert.Contains(t, res.TextOrEmpty(), "Water boils at 100 degrees Celsius at sea level.")
	assert.NotContains(t, res.TextOrEmpty(), "\n")

	// cached: no second request
	again := m.Fetch(ctx, srv.URL+"/page")
	assert.Equal(t, res, again)
	assert.Equal(t, int64(1), hits.Load())

	missing := m.Fetch(ctx, srv.URL+"/missing")
	assert.Nil(t, missing.Text)
	assert.False(t, missing.SkippedAsPDF)
	m.Fetch(ctx, srv.URL+"/missing")
	assert.Equal(t, int64(2), hits.Load(), "failures are cached")

	bin := m.Fetch(ctx, srv.URL+"/binary")
	assert.True(t, bin.SkippedAsPDF)
	assert.Nil(t, bin.Text)
}

func TestFetchBinaryURLSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	m := newTestManager(t)
	res := m.Fetch(context.Background(), srv.URL+"/paper.pdf")
	assert.True(t, res.SkippedAsPDF)
	assert.Nil(t, res.Text)
	assert.Zero(t, hits.Load())
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	m := newTestManager(t, WithConfig(cfg))
	res := m.Fetch(context.Background(), srv.URL+"/slow")
	assert.Nil(t, res.Text)
}

func TestFetchCandidatesAligned(t *testing.T) {
	var inFlight, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "page %s", strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer srv.Close()

	m := newTestManager(t)
	var cands []core.Candidate
	for i := 0; i < 8; i++ {
		cands = append(cands, core.Candidate{URL: fmt.Sprintf("%s/%d", srv.URL, i)})
	}
	results := m.FetchCandidates(context.Background(), cands, 2)
	require.Len(t, results, len(cands))
	for i, r := range results {
		assert.Equal(t, cands[i].URL, r.URL)
		assert.Equal(t, fmt.Sprintf("page %d", i), r.TextOrEmpty())
	}
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestNewManager(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrCacheRequired)

	cfg := DefaultConfig()
	cfg.PerBlock = 0
	_, err = NewManager(memory.NewFetchCache(), WithConfig(cfg))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
