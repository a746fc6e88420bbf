// Package dataset loads a source export (CSV or XLSX) into a bounded
// in-memory sample: the header, the first rows, and the total row count.
// The engine never reads the full file again after loading.
package dataset
