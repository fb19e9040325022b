// Package query turns a block into a web search query.
//
// The Generator embeds every sentence of a block together with the block
// itself, keeps the sentences closest to the block in document order, and
// wraps them in an instruction that any retrieval provider can act on.
package query
