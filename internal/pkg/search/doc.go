// Package search holds the storage-independent parts of article search:
// relevance scoring, LIKE pattern escaping, term normalization, match
// highlighting and the curated fallback list of popular terms.
//
// The relevance weights live in one table (Fields) which is used both by the
// Go scorer and by the SQL CASE expression the PostgreSQL repository builds,
// so ordering in the database and the score reported to clients agree.
package search
