package pipeline

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/sourcetrace/ai"
)

// offloader runs functions on the CPU worker pool and waits for them.
type offloader struct {
	pool *ants.Pool
}

// run submits fn to the pool and blocks until it has finished. When the
// pool is full, submission waits for a free worker.
func (o offloader) run(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	if err := o.pool.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	<-done
	return nil
}

// pooledEmbedder routes embedding calls through the worker pool.
type pooledEmbedder struct {
	offloader
	inner ai.Embedder
}

var _ ai.Embedder = (*pooledEmbedder)(nil)

func (e *pooledEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	var err error
	if perr := e.run(ctx, func() { vec, err = e.inner.EmbedText(ctx, text) }); perr != nil {
		return nil, perr
	}
	return vec, err
}

func (e *pooledEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	var err error
	if perr := e.run(ctx, func() { vecs, err = e.inner.EmbedTexts(ctx, texts) }); perr != nil {
		return nil, perr
	}
	return vecs, err
}

// pooledTagger routes tagging calls through the worker pool.
type pooledTagger struct {
	offloader
	inner ai.Tagger
}

var _ ai.Tagger = (*pooledTagger)(nil)

func (t *pooledTagger) Tag(ctx context.Context, text string) ([]string, error) {
	var tags []string
	var err error
	if perr := t.run(ctx, func() { tags, err = t.inner.Tag(ctx, text) }); perr != nil {
		return nil, perr
	}
	return tags, err
}

// pooledClassifier routes classification calls through the worker pool.
type pooledClassifier struct {
	offloader
	inner ai.SentenceClassifier
}

var _ ai.SentenceClassifier = (*pooledClassifier)(nil)

func (c *pooledClassifier) IsMeaningful(ctx context.Context, sentence string) (bool, error) {
	var ok bool
	var err error
	if perr := c.run(ctx, func() { ok, err = c.inner.IsMeaningful(ctx, sentence) }); perr != nil {
		return false, perr
	}
	return ok, err
}
