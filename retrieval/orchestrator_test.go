package retrieval

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/core"
)

// countingProvider records calls and returns fixed results or an error.
type countingProvider struct {
	name    string
	results []core.Candidate
	err     error
	calls   atomic.Int32
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Search(_ context.Context, _ string, _ int) ([]core.Candidate, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	out := make([]core.Candidate, len(p.results))
	copy(out, p.results)
	return out, nil
}

func cand(url string, conf *float64) core.Candidate {
	return core.Candidate{URL: url, Title: url, Confidence: conf}
}

func newTestOrchestrator(t *testing.T, primary Provider, fallbacks []Provider, mutate func(*Config)) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	o, err := NewOrchestrator(primary, fallbacks, WithConfig(cfg))
	require.NoError(t, err)
	return o
}

func TestOrchestrator_PrimaryConfident(t *testing.T) {
	primary := &countingProvider{name: "primary", results: []core.Candidate{
		cand("https://a.example/", core.Float64(0.9)),
		cand("https://b.example/", core.Float64(0.2)),
	}}
	secondary := &countingProvider{name: "secondary", results: []core.Candidate{cand("https://c.example/", nil)}}

	o := newTestOrchestrator(t, primary, []Provider{secondary}, nil)
	got, err := o.Retrieve(context.Background(), "q", nil)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "primary", got[0].Origin)
	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestOrchestrator_MissingScoreIsConfident(t *testing.T) {
	primary := &countingProvider{name: "primary", results: []core.Candidate{cand("https://a.example/", nil)}}
	secondary := &countingProvider{name: "secondary", results: []core.Candidate{cand("https://c.example/", nil)}}

	o := newTestOrchestrator(t, primary, []Provider{secondary}, nil)
	got, err := o.Retrieve(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestOrchestrator_FallbackCascade(t *testing.T) {
	tests := []struct {
		name          string
		primary       *countingProvider
		secondary     *countingProvider
		tertiary      *countingProvider
		wantOrigins   []string
		wantTertiary  int32
		wantSecondary int32
	}{
		{
			name:          "primary empty uses secondary",
			primary:       &countingProvider{name: "primary"},
			secondary:     &countingProvider{name: "secondary", results: []core.Candidate{cand("https://s.example/", nil)}},
			tertiary:      &countingProvider{name: "tertiary", results: []core.Candidate{cand("https://t.example/", nil)}},
			wantOrigins:   []string{"secondary"},
			wantSecondary: 1,
			wantTertiary:  0,
		},
		{
			name:          "secondary empty uses tertiary",
			primary:       &countingProvider{name: "primary"},
			secondary:     &countingProvider{name: "secondary"},
			tertiary:      &countingProvider{name: "tertiary", results: []core.Candidate{cand("https://t.example/", nil)}},
			wantOrigins:   []string{"tertiary"},
			wantSecondary: 1,
			wantTertiary:  1,
		},
		{
			name:          "all empty yields nothing",
			primary:       &countingProvider{name: "primary"},
			secondary:     &countingProvider{name: "secondary"},
			tertiary:      &countingProvider{name: "tertiary"},
			wantOrigins:   nil,
			wantSecondary: 1,
			wantTertiary:  1,
		},
		{
			name:          "primary failure is treated as empty",
			primary:       &countingProvider{name: "primary", err: &PermanentError{Provider: "primary", Err: errors.New("HTTP 500")}},
			secondary:     &countingProvider{name: "secondary", err: ErrProviderNotConfigured},
			tertiary:      &countingProvider{name: "tertiary", results: []core.Candidate{cand("https://t.example/", nil)}},
			wantOrigins:   []string{"tertiary"},
			wantSecondary: 1,
			wantTertiary:  1,
		},
		{
			name: "low confidence keeps primary and adds unseen fallback results",
			primary: &countingProvider{name: "primary", results: []core.Candidate{
				cand("https://shared.example/", core.Float64(0.3)),
			}},
			secondary: &countingProvider{name: "secondary", results: []core.Candidate{
				cand("https://SHARED.example/#dup", nil),
				cand("https://s.example/", nil),
			}},
			tertiary:      &countingProvider{name: "tertiary", results: []core.Candidate{cand("https://t.example/", nil)}},
			wantOrigins:   []string{"primary", "secondary"},
			wantSecondary: 1,
			wantTertiary:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(t, tt.primary, []Provider{tt.secondary, tt.tertiary}, nil)
			got, err := o.Retrieve(context.Background(), "q", nil)
			require.NoError(t, err)

			var origins []string
			for _, c := range got {
				origins = append(origins, c.Origin)
			}
			assert.Equal(t, tt.wantOrigins, origins)
			assert.Equal(t, int32(1), tt.primary.calls.Load())
			assert.Equal(t, tt.wantSecondary, tt.secondary.calls.Load())
			assert.Equal(t, tt.wantTertiary, tt.tertiary.calls.Load())
		})
	}
}

func TestOrchestrator_ExcludesSeenURLs(t *testing.T) {
	primary := &countingProvider{name: "primary", results: []core.Candidate{cand("https://a.example/x", core.Float64(0.1))}}
	secondary := &countingProvider{name: "secondary", results: []core.Candidate{cand("https://a.example/x/", nil)}}
	tertiary := &countingProvider{name: "tertiary", results: []core.Candidate{cand("https://t.example/", nil)}}

	o := newTestOrchestrator(t, primary, []Provider{secondary, tertiary}, nil)
	got, err := o.Retrieve(context.Background(), "q", nil)
	require.NoError(t, err)

	// The secondary only repeated a seen URL, so the tertiary is consulted.
	require.Len(t, got, 2)
	assert.Equal(t, "primary", got[0].Origin)
	assert.Equal(t, "tertiary", got[1].Origin)
}

func TestOrchestrator_TopKCapsProviderResults(t *testing.T) {
	var results []core.Candidate
	for _, u := range []string{"a", "b", "c", "d"} {
		results = append(results, cand("https://"+u+".example/", nil))
	}
	primary := &countingProvider{name: "primary", results: results}
	o := newTestOrchestrator(t, primary, nil, func(c *Config) { c.TopK = 2 })

	got, err := o.Retrieve(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOrchestrator_BudgetMode(t *testing.T) {
	primary := &countingProvider{name: "primary", results: []core.Candidate{cand("https://p.example/", core.Float64(0.95))}}
	def := &countingProvider{name: "default", results: []core.Candidate{
		cand("https://p.example", nil),
		cand("https://d.example/", nil),
	}}

	o := newTestOrchestrator(t, primary, []Provider{def}, func(c *Config) {
		c.Mode = ModeBudget
		c.Budget = 2
	})
	budget := o.NewBudget()

	for i := 0; i < 3; i++ {
		got, err := o.Retrieve(context.Background(), "q", budget)
		require.NoError(t, err)
		if i < 2 {
			require.Len(t, got, 2, "primary and default merged")
			assert.Equal(t, "primary", got[0].Origin)
			assert.Equal(t, "default", got[1].Origin)
		} else {
			require.Len(t, got, 2, "budget spent, default only")
			assert.Equal(t, "default", got[0].Origin)
		}
	}
	assert.Equal(t, int32(2), primary.calls.Load())
	assert.Equal(t, int32(3), def.calls.Load())
	assert.Equal(t, 0, budget.Remaining())
}

func TestBudget_ConcurrentTake(t *testing.T) {
	b := NewBudget(5)
	var taken atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Take() {
				taken.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), taken.Load())
	assert.False(t, (*Budget)(nil).Take())
}

func TestOrchestrator_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &countingProvider{name: "primary", err: context.Canceled}
	o := newTestOrchestrator(t, primary, nil, nil)
	_, err := o.Retrieve(ctx, "q", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOrchestrator_Validation(t *testing.T) {
	_, err := NewOrchestrator(nil, nil)
	assert.ErrorIs(t, err, ErrNoProviders)

	cfg := DefaultConfig()
	cfg.TopK = 0
	_, err = NewOrchestrator(NewStaticProvider("s"), nil, WithConfig(cfg))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("static", cand("https://a.example/", nil), cand("https://b.example/", nil)).
		WithQuery("special", cand("https://s.example/", nil))

	got, err := p.Search(context.Background(), "anything", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = p.Search(context.Background(), "special", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://s.example/", got[0].URL)
}

func TestConfig(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pk")
	t.Setenv("GOOGLE_API_KEY", "gk")
	t.Setenv("GOOGLE_CSE_ID", "cx")
	t.Setenv("BING_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Google.APIKey = "explicit"
	cfg.ApplyEnv()
	assert.Equal(t, "pk", cfg.SearchAPI.APIKey)
	assert.Equal(t, "explicit", cfg.Google.APIKey, "explicit values win")
	assert.Equal(t, "cx", cfg.Google.CSEID)
	require.NoError(t, cfg.Validate())

	primary, fallbacks, err := NewProviders(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "searchapi", primary.Name())
	require.Len(t, fallbacks, 2)
	assert.Equal(t, "google", fallbacks[0].Name())
	assert.Equal(t, "bing", fallbacks[1].Name())

	cfg.DuckDuckGo.Enabled = true
	_, fallbacks, err = NewProviders(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, fallbacks, 3)

	mode, err := ParseMode("BUDGET")
	require.NoError(t, err)
	assert.Equal(t, ModeBudget, mode)
	_, err = ParseMode("random")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
