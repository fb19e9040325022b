// Package mock provides deterministic test doubles for the ai interfaces.
//
// Every mock counts its calls and accepts injected behavior:
//
//	embedder := mock.NewMockEmbedder().WithError(errors.New("embedding service down"))
//	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTagger(), mock.NewMockClassifier())
//
// Defaults: MockEmbedder returns a fixed unit vector per text, MockTagger
// derives a tag from each token's hash, and MockClassifier treats sentences
// of three or more words as meaningful.
package mock
