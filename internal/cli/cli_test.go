package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontomap/internal/engine"
)

const ordersCSV = `WO Number,Part Number,Qty,Machine
WO-1,P-100,10,M-01
WO-2,P-200,5,M-02
`

const validProfile = `version: "1"
granularity: header
fields:
  - field: work_order.work_order_number
    source_column: WO Number
  - field: work_order.part_number
    source_column: Part Number
  - field: work_order.quantity
    source_column: Qty
    transformations:
      - type: parseNumber
  - field: operation.machine
    source_column: Machine
  - field: operation.machine_rate
    source_type: derived
    rule:
      type: lookup
      source_field: Machine
      table: {M-01: 2.5}
      default: 1
`

const duplicateProfile = `fields:
  - field: work_order.work_order_number
    source_column: WO Number
  - field: work_order.part_number
    source_column: WO Number
  - field: work_order.quantity
    source_column: Qty
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "work_order.work_order_number")

	out, err = run(t, "catalog", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"work_order_number"`)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "orders.csv", ordersCSV)
	export := filepath.Join(dir, "profile.yaml")

	out, err := run(t, "analyze", data, "--export", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Granularity:")
	assert.Contains(t, out, "work_order.work_order_number")
	assert.Contains(t, out, "Confidence score:")
	assert.FileExists(t, export)

	out, err = run(t, "analyze", data, "--json", "--level", "operation")
	require.NoError(t, err)

	var analysis struct {
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, "operation", analysis.Level)

	_, err = run(t, "analyze", data, "--level", "plant")
	assert.Error(t, err)

	_, err = run(t, "analyze", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestAnalyze_WorkOrderColumn(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "tickets.csv", "Ticket,Step,Qty\nT1,1,5\nT1,2,5\nT2,1,3\nT2,2,3\n")

	out, err := run(t, "analyze", data, "--json", "--work-order-column", "Ticket")
	require.NoError(t, err)

	var analysis struct {
		Level       string `json:"level"`
		Granularity struct {
			WorkOrderColumn string `json:"work_order_column"`
		} `json:"granularity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, "operation", analysis.Level)
	assert.Equal(t, "Ticket", analysis.Granularity.WorkOrderColumn)

	_, err = run(t, "analyze", data, "--work-order-column", "Order")
	assert.ErrorIs(t, err, engine.ErrUnknownColumn)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "orders.csv", ordersCSV)

	out, err := run(t, "check", data, "--profile", writeFile(t, dir, "ok.yaml", validProfile))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Confidence score:")

	out, err = run(t, "check", data, "--profile", writeFile(t, dir, "dup.yaml", duplicateProfile))
	require.Error(t, err)
	assert.Contains(t, out, "duplicate_source_column")

	var exit *ExitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, ExitCodeInvalid, exit.Code)

	_, err = run(t, "check", data)
	assert.Error(t, err, "--profile is required")
}

func TestPreviewRule(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "orders.csv", ordersCSV)
	profile := writeFile(t, dir, "ok.yaml", validProfile)

	out, err := run(t, "preview-rule", data, "--profile", profile, "--field", "operation.machine_rate")
	require.NoError(t, err)
	assert.Contains(t, out, "matched 1, default 1, unmatched 0")

	_, err = run(t, "preview-rule", data, "--profile", profile, "--field", "operation.machine")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "orders.csv", ordersCSV)
	outPath := filepath.Join(dir, "rows.json")

	_, err := run(t, "normalize", data, "--profile", writeFile(t, dir, "ok.yaml", validProfile), "--out", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var res struct {
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.Records, 2)
	assert.Equal(t, 10.0, res.Records[0]["work_order.quantity"])
	assert.Equal(t, 2.5, res.Records[0]["operation.machine_rate"])
	assert.Equal(t, 1.0, res.Records[1]["operation.machine_rate"])

	_, err = run(t, "normalize", data, "--profile", writeFile(t, dir, "dup.yaml", duplicateProfile))

	var exit *ExitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, ExitCodeInvalid, exit.Code)
}

func TestConfigFlag(t *testing.T) {
	_, err := run(t, "catalog", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestExampleProfile(t *testing.T) {
	data := filepath.Join("..", "..", "examples", "operations", "export.csv")
	profile := filepath.Join("..", "..", "examples", "operations", "mapping.yaml")

	out, err := run(t, "check", data, "--profile", profile)
	require.NoError(t, err, out)

	out, err = run(t, "normalize", data, "--profile", profile)
	require.NoError(t, err)

	var res struct {
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Records, 6)

	first := res.Records[0]
	assert.Equal(t, "WO-1001", first["work_order.work_order_number"])
	assert.Equal(t, 10.0, first["work_order.quantity"])
	assert.Equal(t, "2024-01-15", first["work_order.due_date"])
	assert.Equal(t, 1200.0, first["cost.planned_cost"])
	assert.Equal(t, 85.0, first["operation.machine_rate"])
	assert.Equal(t, 38.0, first["cost.labor_rate"])
	assert.Equal(t, 75.0, first["cost.overhead_cost"])

	assembly := res.Records[4]
	assert.Equal(t, 55.0, assembly["operation.machine_rate"])
	assert.Equal(t, 35.0, assembly["cost.labor_rate"])
	assert.Equal(t, 150.0, assembly["cost.overhead_cost"])
}
