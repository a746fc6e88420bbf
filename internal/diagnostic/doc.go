// Package diagnostic provides severity-tagged issues shared by the mapping
// validator, the rule engine and the confidence scorer.
//
// Two severities never mix:
//   - error: the mapping is structurally broken and must not be committed
//   - warning / info: advisory, surfaced for operator judgment only
//
// Nothing in the engine returns these as Go errors; callers inspect the
// collection and decide whether to block a save.
package diagnostic
