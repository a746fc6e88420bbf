package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ontomap/internal/dataset"
	"ontomap/internal/depgraph"
	"ontomap/internal/diagnostic"
	"ontomap/internal/granularity"
	"ontomap/internal/mapping"
	"ontomap/internal/match"
	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/score"
)

var (
	// ErrUnknownField is returned for a field id that is not in the catalog.
	ErrUnknownField = errors.New("unknown ontology field")
	// ErrNoRule is returned when previewing a field that has no rule.
	ErrNoRule = errors.New("field has no business rule")
	// ErrUnknownColumn is returned for a grouping column the dataset lacks.
	ErrUnknownColumn = errors.New("column not in dataset")
)

// CodeAmbiguousMatch flags a suggestion whose runner-up column scored almost as well.
const CodeAmbiguousMatch = "ambiguous_column_match"

// Engine runs the mapping components against one catalog.
type Engine struct {
	catalog   *ontology.Catalog
	synonyms  ontology.Synonyms
	matcher   *match.Matcher
	validator *mapping.Validator
	scorer    *score.Scorer
}

// New creates an Engine for catalog and synonyms.
func New(catalog *ontology.Catalog, synonyms ontology.Synonyms) *Engine {
	validator := mapping.NewValidator(catalog)

	return &Engine{
		catalog:   catalog,
		synonyms:  synonyms,
		matcher:   match.NewMatcher(catalog, synonyms),
		validator: validator,
		scorer:    score.NewScorer(catalog, validator),
	}
}

// Default creates an Engine over the embedded catalog.
func Default() *Engine {
	return New(ontology.MustDefault(), ontology.MustDefaultSynonyms())
}

// Catalog returns the catalog the engine maps into.
func (e *Engine) Catalog() *ontology.Catalog { return e.catalog }

// Analysis is the result of analysing a freshly loaded dataset.
type Analysis struct {
	ID          string               `json:"id"`
	Dataset     DatasetSummary       `json:"dataset"`
	Granularity granularity.Analysis `json:"granularity"`
	// Level is the granularity the suggestions were made for.
	Level        ontology.Level      `json:"level"`
	Profile      *mapping.Profile    `json:"mapping"`
	Explanations []match.Explanation `json:"explanations,omitempty"`
	Review       *Review             `json:"review"`
	Mappings     mapping.Set         `json:"-"`
}

// DatasetSummary describes the analysed dataset without its rows.
type DatasetSummary struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Format   string            `json:"format"`
	Encoding string            `json:"encoding,omitempty"`
	Columns  []string          `json:"columns"`
	RowCount int               `json:"row_count"`
	Sampled  int               `json:"sampled_rows"`
	Warnings []dataset.Warning `json:"warnings,omitempty"`
}

// Analyze detects granularity and suggests mappings for ds. When level is
// empty the detected granularity is used.
func (e *Engine) Analyze(ds *dataset.Dataset, level ontology.Level) *Analysis {
	return e.analyze(ds, level, granularity.Detect(ds.Columns, ds.SampleRows))
}

// AnalyzeWithColumn is Analyze with the work order column chosen by the
// operator instead of detected from headers.
func (e *Engine) AnalyzeWithColumn(ds *dataset.Dataset, level ontology.Level, woColumn string) (*Analysis, error) {
	if !ds.HasColumn(woColumn) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, woColumn)
	}

	return e.analyze(ds, level, granularity.DetectWithColumn(ds.Columns, ds.SampleRows, woColumn)), nil
}

func (e *Engine) analyze(ds *dataset.Dataset, level ontology.Level, gran granularity.Analysis) *Analysis {
	if level == "" {
		level = gran.Granularity
	}

	set, explanations := e.matcher.SuggestWithExplanations(ds.Columns, ds.SampleRows, level)

	return &Analysis{
		ID: uuid.NewString(),
		Dataset: DatasetSummary{
			ID:       ds.ID,
			Name:     ds.Name,
			Format:   ds.Format,
			Encoding: ds.Encoding,
			Columns:  ds.Columns,
			RowCount: ds.RowCount,
			Sampled:  len(ds.SampleRows),
			Warnings: ds.Warnings,
		},
		Granularity:  gran,
		Level:        level,
		Profile:      mapping.NewProfile(set, level, gran.GroupingFields, true),
		Explanations: explanations,
		Review:       e.review(set, ds.SampleRows, ambiguityWarnings(explanations)),
		Mappings:     set,
	}
}

func ambiguityWarnings(explanations []match.Explanation) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	for _, exp := range explanations {
		if !exp.Ambiguous {
			continue
		}

		d.AddWarning(CodeAmbiguousMatch, string(exp.Field),
			fmt.Sprintf("columns %q and %q match almost equally well", exp.Candidates[0].Column, exp.Candidates[1].Column),
			"confirm the suggested column")
	}

	return d
}

// Review is everything an operator needs to judge a mapping.
type Review struct {
	Issues *diagnostic.Diagnostics `json:"validation"`
	Graph  depgraph.Summary        `json:"graph"`
	Score  score.ConfidenceScore   `json:"score"`
}

// Valid reports whether the mapping has no hard errors.
func (r *Review) Valid() bool { return r.Issues.IsValid() }

// Review validates set against rows, checks its dependency graph and scores
// it. Cycle warnings count towards the score like any other warning.
func (e *Engine) Review(set mapping.Set, rows []map[string]string) *Review {
	return e.review(set, rows, diagnostic.Diagnostics{})
}

func (e *Engine) review(set mapping.Set, rows []map[string]string, extra diagnostic.Diagnostics) *Review {
	issues := e.validator.Validate(set, rows)
	graph := depgraph.Build(set)
	issues.Merge(*graph.Warnings())
	issues.Merge(extra)

	return &Review{
		Issues: issues,
		Graph:  graph.Summary(),
		Score:  e.scorer.ScoreIssues(set, rows, issues),
	}
}

// PreviewRule dry-runs the rule attached to id against rows.
func (e *Engine) PreviewRule(set mapping.Set, id ontology.FieldID, rows []map[string]string) (rules.PreviewResult, error) {
	if _, ok := e.catalog.Lookup(id); !ok {
		return rules.PreviewResult{}, fmt.Errorf("%w: %s", ErrUnknownField, id)
	}

	f, ok := set.Get(id)
	if !ok || f.Rule == nil {
		return rules.PreviewResult{}, fmt.Errorf("%w: %s", ErrNoRule, id)
	}

	return rules.Preview(f.Rule, rows, set.AvailableFieldsFor(id)), nil
}

// LoadProfile reads a mapping profile and resolves it against the catalog.
func (e *Engine) LoadProfile(path string) (*mapping.Profile, mapping.Set, error) {
	p, err := mapping.LoadFile(path)
	if err != nil {
		return nil, mapping.Set{}, err
	}

	set, err := p.ToSet(e.catalog)
	if err != nil {
		return nil, mapping.Set{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return p, set, nil
}

// ExportSuggestions writes the analysis as a reviewable mapping profile.
// Unmapped fields are kept so the operator can fill them in.
func ExportSuggestions(a *Analysis, path string) error {
	if a == nil || a.Profile == nil {
		return errors.New("nothing to export")
	}

	if err := mapping.WriteFile(a.Profile, path); err != nil {
		return fmt.Errorf("failed to export suggestions: %w", err)
	}

	return nil
}

// ExportSuggestionsYAML returns the analysis profile as YAML.
func ExportSuggestionsYAML(a *Analysis) ([]byte, error) {
	if a == nil || a.Profile == nil {
		return nil, errors.New("nothing to export")
	}

	return mapping.Marshal(a.Profile)
}
