// Package depgraph builds the "which field's rule reads which other field"
// graph of a mapping set and analyses it for cycles, dependency chains,
// change impact, and a safe rule evaluation order.
//
// An edge A -> B means A's business rule reads the source column owned by B.
// Cycles are advisory: they are reported as warnings and never block saving.
package depgraph
