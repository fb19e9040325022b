// Package enrich attaches bibliographic metadata to cited sources.
//
// An Enricher maps source URLs to author, publication date, document type
// and citation. Anything it cannot determine is reported as "Unknown"; an
// enrichment failure never removes a source from the output.
package enrich
