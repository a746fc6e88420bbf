// Package mapping holds the field mapping data model, the mapping profile
// document that operators review and confirm, and the Mapping Validator.
//
// A mapping profile turns best-effort suggestions into a deterministic,
// operator-approved configuration for one source export.
//
// # Schema Overview
//
// The profile file has the following structure:
//
//	version: "1"
//	granularity: operation
//	grouping_fields: [WO Number, Op Seq]
//	fields:
//	  # Column copied through a transformation chain
//	  - field: work_order.work_order_number
//	    source_type: csv
//	    source_column: WO Number
//	    transformations:
//	      - type: trim
//	  # Constant for every row
//	  - field: work_order.status
//	    source_type: fixed
//	    fixed_value: released
//	  # Value produced by a business rule
//	  - field: operation.machine_rate
//	    source_type: derived
//	    rule:
//	      type: lookup
//	      source_field: Machine
//	      table: {M-01: 2.5, M-02: 1.8}
//	      default: 0
//
// JSON documents with the same keys are accepted; JSON is read through the
// YAML decoder.
//
// # Mapped fields
//
// A field is mapped when it names an entity and property and has a value
// source: a source column, a fixed value, or (for derived fields) a rule.
//
// # Validation
//
// Validator checks a Set against the catalog and sample rows. Problems are
// returned as diagnostics; only errors block saving.
package mapping
