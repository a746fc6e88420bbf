// Package transform implements the value-cleaning pipeline applied to a raw
// cell before business rules run.
//
// Each Transformation is a pure function with a typed configuration. The set
// of kinds is closed: Trim, Uppercase, Lowercase, ParseDate, ParseNumber,
// RemoveUnits, ReplaceText and DefaultValue. ApplyAll folds a sequence left
// to right, and order is significant.
//
// Nothing here fails at runtime: unparseable dates and numbers become nil
// (null), and a broken regular expression falls back to literal replacement.
// Validate is the separate, side-effect-free check run before a
// transformation is accepted into a mapping.
package transform
