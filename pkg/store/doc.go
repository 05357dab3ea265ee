// Package store holds the last fetched jobs and statistics.
//
// Stores never perform network calls. A fetch result is applied by
// substituting the whole collection through an atomic pointer, so readers on
// any goroutine see either the previous snapshot or the new one. Results
// carry the sequence number of the fetch that produced them; a result older
// than the applied one is discarded.
package store
