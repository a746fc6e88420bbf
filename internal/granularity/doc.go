// Package granularity infers what one source row represents: a whole work
// order (header), one operation of a work order, or one line item of an
// operation. Detection is heuristic; the result carries a confidence and a
// plain-language reasoning string for the operator.
package granularity
