package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontomap/internal/config"
	"ontomap/internal/engine"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return New(config.DefaultConfig(), engine.Default()).Handler()
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())

	return w.Code, env
}

func postJSON(t *testing.T, h http.Handler, path string, body any) (int, envelope) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	return do(t, h, req)
}

func TestHealth(t *testing.T) {
	code, env := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, CodeOK, env.Code)
	assert.Contains(t, string(env.Data), `"status":"ok"`)
}

func TestCatalog(t *testing.T) {
	code, env := do(t, newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"work_order_number"`)
}

func TestAnalyze(t *testing.T) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("WO Number,Part Number,Qty\nWO-1,P-1,5\nWO-2,P-2,7\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("level", "header"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	code, env := do(t, newTestServer(t), req)
	require.Equal(t, http.StatusOK, code, env.Message)

	var out struct {
		Level   string `json:"level"`
		Mapping struct {
			Fields []struct {
				Field        string `json:"field"`
				SourceColumn string `json:"source_column"`
			} `json:"fields"`
		} `json:"mapping"`
		Review struct {
			Score struct {
				Overall int `json:"overall"`
			} `json:"score"`
		} `json:"review"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	assert.Equal(t, "header", out.Level)

	columns := map[string]string{}
	for _, f := range out.Mapping.Fields {
		columns[f.Field] = f.SourceColumn
	}

	assert.Equal(t, "WO Number", columns["work_order.work_order_number"])
	assert.Equal(t, "Qty", columns["work_order.quantity"])
	assert.Positive(t, out.Review.Score.Overall)
}

func TestAnalyze_Errors(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	code, env := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadFile, env.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("A\n1\n"))
	require.NoError(t, mw.WriteField("level", "plant"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	code, env = do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadRequest, env.Code)
}

func analyzeRequest(t *testing.T, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestAnalyze_WorkOrderColumn(t *testing.T) {
	h := newTestServer(t)
	csv := "Ticket,Step,Qty\nT1,1,5\nT1,2,5\nT2,1,3\nT2,2,3\n"

	code, env := do(t, h, analyzeRequest(t, csv, map[string]string{"work_order_column": "Ticket"}))
	require.Equal(t, http.StatusOK, code, env.Message)

	var out struct {
		Level       string `json:"level"`
		Granularity struct {
			WorkOrderColumn string   `json:"work_order_column"`
			GroupingFields  []string `json:"grouping_fields"`
		} `json:"granularity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	assert.Equal(t, "operation", out.Level)
	assert.Equal(t, "Ticket", out.Granularity.WorkOrderColumn)
	assert.Equal(t, []string{"Ticket", "Step"}, out.Granularity.GroupingFields)

	code, env = do(t, h, analyzeRequest(t, csv, map[string]string{"work_order_column": "Order"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadRequest, env.Code)
	assert.Contains(t, env.Message, "Order")
}

const profileJSON = `{
  "granularity": "header",
  "fields": [
    {"field": "work_order.work_order_number", "source_column": "WO"},
    {"field": "work_order.part_number", "source_column": "Part"},
    {"field": "work_order.quantity", "source_column": "WO"}
  ]
}`

func TestReview(t *testing.T) {
	code, env := postJSON(t, newTestServer(t), "/api/v1/review", gin.H{
		"profile":     json.RawMessage(profileJSON),
		"sample_rows": []map[string]string{{"WO": "1", "Part": "P"}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var out struct {
		Validation struct {
			Issues []struct {
				Code string `json:"code"`
			} `json:"issues"`
		} `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	var codes []string
	for _, i := range out.Validation.Issues {
		codes = append(codes, i.Code)
	}

	assert.Contains(t, codes, "duplicate_source_column")
}

func TestReview_BadProfile(t *testing.T) {
	code, env := postJSON(t, newTestServer(t), "/api/v1/review", gin.H{
		"profile": json.RawMessage(`{"fields": [{"field": "nope.nothing", "source_column": "X"}]}`),
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadProfile, env.Code)
}

func TestNormalize(t *testing.T) {
	profile := `{"fields": [
	  {"field": "work_order.work_order_number", "source_column": "WO", "transformations": [{"type": "trim"}]},
	  {"field": "work_order.quantity", "source_column": "Qty", "transformations": [{"type": "parseNumber"}]}
	]}`

	code, env := postJSON(t, newTestServer(t), "/api/v1/normalize", gin.H{
		"profile":     json.RawMessage(profile),
		"sample_rows": []map[string]string{{"WO": " WO-1 ", "Qty": "1,200"}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var out struct {
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Records, 1)
	assert.Equal(t, "WO-1", out.Records[0]["work_order.work_order_number"])
	assert.Equal(t, 1200.0, out.Records[0]["work_order.quantity"])
}

func TestPreviewRule(t *testing.T) {
	h := newTestServer(t)

	code, env := postJSON(t, h, "/api/v1/rules/preview", gin.H{
		"rule": gin.H{
			"type":         "lookup",
			"source_field": "Machine",
			"table":        gin.H{"M-01": 2.5},
		},
		"sample_rows":      []map[string]string{{"Machine": "M-01"}, {"Machine": "M-09"}},
		"available_fields": []string{"Machine"},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var out struct {
		TotalRows     int      `json:"total_rows"`
		MatchedRows   int      `json:"matched_rows"`
		UnmatchedRows int      `json:"unmatched_rows"`
		Warnings      []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 2, out.TotalRows)
	assert.Equal(t, 1, out.MatchedRows)
	assert.Equal(t, 1, out.UnmatchedRows)
	assert.NotEmpty(t, out.Warnings)

	code, env = postJSON(t, h, "/api/v1/rules/preview", gin.H{"rule": gin.H{"type": "formula"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadRule, env.Code)
}

func TestApplyTransformations(t *testing.T) {
	h := newTestServer(t)

	code, env := postJSON(t, h, "/api/v1/transformations/apply", gin.H{
		"value": " $1,234.50 ",
		"transformations": []gin.H{
			{"type": "trim"},
			{"type": "parseNumber"},
		},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var out applyResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "$1,234.50", out.Steps[0])
	assert.Equal(t, 1234.5, out.Output)

	code, env = postJSON(t, h, "/api/v1/transformations/apply", gin.H{
		"value":           "nan",
		"transformations": []gin.H{{"type": "parseNumber"}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	out = applyResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Nil(t, out.Output)

	code, env = postJSON(t, h, "/api/v1/transformations/apply", gin.H{
		"value":           "x",
		"transformations": []gin.H{{"type": "parseDate", "output_format": "nothing"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeBadTransform, env.Code)
}
