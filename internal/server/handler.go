package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ontomap/internal/config"
	"ontomap/internal/dataset"
	"ontomap/internal/engine"
	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/transform"
	"ontomap/pkg/logger"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes carried in Response.Code.
const (
	CodeOK           = 0
	CodeBadRequest   = 1001
	CodeBadFile      = 1002
	CodeBadProfile   = 1003
	CodeBadRule      = 1004
	CodeBadTransform = 1005
)

// Handler implements the API endpoints.
type Handler struct {
	engine *engine.Engine
	opts   dataset.Options
}

// NewHandler creates a Handler.
func NewHandler(e *engine.Engine, cfg *config.AppConfig) *Handler {
	return &Handler{engine: e, opts: cfg.DatasetOptions()}
}

// RegisterRoutes mounts the endpoints on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/catalog", h.Catalog)
	rg.POST("/analyze", h.Analyze)
	rg.POST("/review", h.Review)
	rg.POST("/normalize", h.Normalize)
	rg.POST("/rules/preview", h.PreviewRule)
	rg.POST("/transformations/apply", h.ApplyTransformations)
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{Code: code, Message: message})
}

// Health reports liveness and the active catalog version.
func (h *Handler) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok", "catalog_version": h.engine.Catalog().Version})
}

// Catalog returns the ontology.
func (h *Handler) Catalog(c *gin.Context) {
	success(c, h.engine.Catalog())
}

// Analyze loads an uploaded export and returns granularity and suggestions.
func (h *Handler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadFile, "missing multipart field \"file\"")

		return
	}
	defer file.Close()

	level := ontology.Level(c.PostForm("level"))
	if level != "" && !level.IsValid() {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid level %q", level))

		return
	}

	opts := h.opts
	opts.Sheet = c.PostForm("sheet")

	var ds *dataset.Dataset

	if dataset.IsSpreadsheet(header.Filename) {
		ds, err = dataset.ReadXLSX(file, header.Filename, opts)
	} else {
		ds, err = dataset.ReadCSV(file, header.Filename, opts)
	}

	if err != nil {
		logger.Warn("analyze %s: %v", header.Filename, err)
		errorResponse(c, http.StatusBadRequest, CodeBadFile, err.Error())

		return
	}

	logger.Info("analyze %s: %d columns, %d rows", ds.Name, len(ds.Columns), ds.RowCount)

	woColumn := c.PostForm("work_order_column")
	if woColumn == "" {
		success(c, h.engine.Analyze(ds, level))

		return
	}

	analysis, err := h.engine.AnalyzeWithColumn(ds, level, woColumn)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, err.Error())

		return
	}

	success(c, analysis)
}

// profileRequest carries a mapping profile and sample rows. The profile is
// kept raw so it goes through the same decoding as profile files.
type profileRequest struct {
	Profile    json.RawMessage     `json:"profile" binding:"required"`
	SampleRows []map[string]string `json:"sample_rows"`
}

func (h *Handler) bindProfile(c *gin.Context) (mapping.Set, []map[string]string, bool) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, err.Error())

		return mapping.Set{}, nil, false
	}

	p, err := mapping.Parse(req.Profile)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadProfile, err.Error())

		return mapping.Set{}, nil, false
	}

	set, err := p.ToSet(h.engine.Catalog())
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadProfile, err.Error())

		return mapping.Set{}, nil, false
	}

	return set, req.SampleRows, true
}

// Review validates, graphs and scores a mapping profile.
func (h *Handler) Review(c *gin.Context) {
	set, rows, ok := h.bindProfile(c)
	if !ok {
		return
	}

	success(c, h.engine.Review(set, rows))
}

// Normalize computes loader records for the sample rows.
func (h *Handler) Normalize(c *gin.Context) {
	set, rows, ok := h.bindProfile(c)
	if !ok {
		return
	}

	out, err := h.engine.NormalizeRows(set, rows)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rules.ErrInvalidRule) {
			status = http.StatusUnprocessableEntity
		}

		errorResponse(c, status, CodeBadRule, err.Error())

		return
	}

	success(c, out)
}

type previewRequest struct {
	Rule            rules.Def           `json:"rule"`
	SampleRows      []map[string]string `json:"sample_rows"`
	AvailableFields []string            `json:"available_fields"`
}

// PreviewRule dry-runs a rule. Structural problems come back inside the
// preview, not as an HTTP error.
func (h *Handler) PreviewRule(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, err.Error())

		return
	}

	r, err := rules.FromDef(req.Rule)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRule, err.Error())

		return
	}

	success(c, rules.Preview(r, req.SampleRows, req.AvailableFields))
}

type applyRequest struct {
	Value           any             `json:"value"`
	Transformations []transform.Def `json:"transformations"`
}

type applyResponse struct {
	Input  any   `json:"input"`
	Output any   `json:"output"`
	Steps  []any `json:"steps"`
}

// ApplyTransformations runs a pipeline over a single value and returns every
// intermediate result.
func (h *Handler) ApplyTransformations(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, err.Error())

		return
	}

	ts, err := transform.FromDefs(req.Transformations)
	if err == nil {
		err = transform.ValidateAll(ts)
	}

	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadTransform, err.Error())

		return
	}

	resp := applyResponse{Input: req.Value, Steps: make([]any, 0, len(ts))}

	v := req.Value
	for _, t := range ts {
		v = transform.Apply(v, t)
		resp.Steps = append(resp.Steps, v)
	}

	resp.Output = v

	success(c, resp)
}
