package retrieval

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/sourcetrace/core"
)

// Provider searches one backend for candidate sources.
type Provider interface {
	// Name identifies the provider; it becomes each candidate's Origin.
	Name() string
	// Search returns at most topK candidates for query.
	Search(ctx context.Context, query string, topK int) ([]core.Candidate, error)
}

// base holds what the HTTP-backed providers share.
type base struct {
	name     string
	endpoint string
	client   *http.Client
	timeout  time.Duration
	retry    RetryPolicy
	logger   *slog.Logger
}

// ProviderOption configures an HTTP-backed provider.
type ProviderOption func(*base)

// WithEndpoint overrides the provider's default endpoint.
func WithEndpoint(endpoint string) ProviderOption {
	return func(b *base) {
		if endpoint != "" {
			b.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(b *base) {
		if client != nil {
			b.client = client
		}
	}
}

// WithTimeout bounds each request attempt.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(b *base) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// WithRetryPolicy sets the retry policy for transient failures.
func WithRetryPolicy(policy RetryPolicy) ProviderOption {
	return func(b *base) {
		if policy.MaxAttempts > 0 {
			b.retry = policy
		}
	}
}

// WithProviderLogger sets the provider's logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func newBase(name, endpoint string, opts []ProviderOption) base {
	b := base{
		name:     name,
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  30 * time.Second,
		retry:    DefaultRetryPolicy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.logger = b.logger.With("component", "retrieval", "provider", name)
	return b
}

func (b *base) Name() string { return b.name }

// StaticProvider returns a fixed candidate list. It serves offline runs and tests.
type StaticProvider struct {
	name       string
	candidates []core.Candidate
	byQuery    map[string][]core.Candidate
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider returns candidates for every query.
func NewStaticProvider(name string, candidates ...core.Candidate) *StaticProvider {
	return &StaticProvider{name: name, candidates: candidates}
}

// WithQuery registers candidates returned for one exact query instead of the defaults.
func (p *StaticProvider) WithQuery(query string, candidates ...core.Candidate) *StaticProvider {
	if p.byQuery == nil {
		p.byQuery = make(map[string][]core.Candidate)
	}
	p.byQuery[query] = candidates
	return p
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := p.candidates
	if c, ok := p.byQuery[query]; ok {
		src = c
	}
	if topK > 0 && len(src) > topK {
		src = src[:topK]
	}
	out := make([]core.Candidate, len(src))
	copy(out, src)
	return out, nil
}
