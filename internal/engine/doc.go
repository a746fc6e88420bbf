// Package engine wires the mapping components into the flow an import
// follows: detect granularity, suggest mappings, review the operator's
// mapping (validation, dependency graph, score) and finally normalize rows
// for the loader.
//
// The engine holds only immutable reference data (catalog and synonyms) and
// is safe for concurrent use.
package engine
