// Package rules evaluates per-field business rules: operator-authored
// derivations that produce a value from other columns of the same row.
//
// Two kinds exist. A Lookup maps a source column's value through a table. A
// Conditional walks an ordered list of conditions and the first true one
// wins. Array order is the tie-break, not specificity. A third kind,
// "formula", is reserved and rejected on decode.
//
// Validate reports structural problems (missing or unmapped fields, unknown
// operators) as data. Preview evaluates a rule over sample rows and
// aggregates outcome counts plus advisory warnings.
package rules
