// Package match suggests which source columns feed which ontology properties.
//
// Key functions:
//   - NormalizeHeader: folds headers and synonyms to a comparable form
//   - Levenshtein: computes edit distance between strings
//   - ScoreName: scores one header against one synonym
//   - RankColumns: ranks candidate columns for a property
//   - CheckValues: validates sample values against a property's data type
//   - Matcher.Suggest: produces a mapping suggestion for every targeted property
package match
