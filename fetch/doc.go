// Package fetch downloads candidate sources and extracts their readable text.
//
// A Manager consults the run-scoped storage.FetchCache before touching the
// network, collapses concurrent fetches of one URL, bounds concurrency with a
// global semaphore shared by every block, and runs the body through an
// ordered chain of extractors:
//
//	MainContentExtractor  <main>, <article> or role=main, minus page chrome
//	ArticleExtractor      paragraphs of the densest container
//	PDFExtractor          only when binary scraping is allowed
//	StripExtractor        tag stripping as the last resort
//
// The first extractor that yields text wins. Failures never surface as
// errors: they are cached as results with a nil Text.
package fetch
