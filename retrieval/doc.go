// Package retrieval turns a block query into candidate source URLs.
//
// Providers wrap individual search backends. The Orchestrator combines them
// under one of two policies:
//
//   - ModeCascade: ask the primary provider; when it fails, returns nothing,
//     or its best confidence is below the fallback threshold, ask each
//     fallback in turn until one returns results.
//   - ModeBudget: spend a per-document budget of primary queries and always
//     merge in the results of the default providers.
//
// Candidates are deduplicated by normalized URL and always record which
// provider produced them. Provider failures degrade to empty results and
// are never returned to the caller. Only transient errors are retried.
package retrieval
