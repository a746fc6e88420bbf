// Package score computes the overall confidence of a mapping set from its
// completeness, validation health, sample coverage and rule coverage, and
// turns the weak spots into plain-language recommendations.
package score
