// Package ontology holds the fixed manufacturing schema that source data is
// normalized into, together with the alias table used by the field matcher.
//
// Both are static, versioned reference data. The default catalog and synonym
// table are embedded YAML documents; alternatives can be loaded from disk and
// injected wherever a *Catalog or Synonyms is accepted. The engine never
// mutates them.
package ontology
