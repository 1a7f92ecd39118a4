// Package animals provides the client-side persistence layer for cached animals.
//
// # Overview
//
// Repository is the contract used by the local store; SQLiteRepository
// implements it over dbx.DBTX (either *sql.DB or *sql.Tx), so batches can be
// written inside a transaction together with their organizations.
//
// # Semantics
//
// Writes are insert-if-absent: the first stored copy of an ID wins and later
// copies are ignored. Reads are ordered newest first by published_at, with the
// ID as a tie breaker. Search matches the name by case-insensitive substring
// and age/type by case-insensitive equality; empty filters match everything.
package animals
