package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--database-url="))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate_SingleRecord(t *testing.T) {
	out, err := run(t, `{"national_id":"12345","phone_number":"0912345678"}`, "validate", "-")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, false, report["valid"])
	assert.Equal(t, "C", report["badge"])
	assert.Equal(t, []any{"National ID must be 10 digits"}, report["issues"])
}

func TestValidate_MinScore(t *testing.T) {
	path := writeFile(t, "records.json", `[{"national_id":"1234567890"},{"national_id":"1"}]`)
	out, err := run(t, "", "validate", "--min-score=0.9", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 records scored below 0.90")

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 2)
}

func TestValidate_WithRulesFile(t *testing.T) {
	rules := writeFile(t, "rules.yaml", `
rules:
  - table: businesses
    column: email
    type: pattern
    value: {pattern: "@"}
    message: Email must contain @
`)
	out, err := run(t, `{"email":"nobody"}`, "validate", "-e", "business", "--rules", rules, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Email must contain @")
}

func TestCleanse(t *testing.T) {
	out, err := run(t, `{"phone_number":"249912345678","name":"  Amna   Ali "}`, "cleanse", "-")
	require.NoError(t, err)

	var got cleanseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "+249912345678", got.CleansedData["phone_number"])
	assert.Equal(t, "Amna Ali", got.CleansedData["name"])
	assert.True(t, got.QualityReport.Valid)
}

func TestEnrich(t *testing.T) {
	out, err := run(t, `[{"stateCode":"7"}]`, "enrich", "-")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "07", got[0]["stateCode"])
	assert.NotEmpty(t, got[0]["stateName"])
	assert.NotEmpty(t, got[0]["enrichedAt"])
}

func TestBatch(t *testing.T) {
	path := writeFile(t, "batch.json", `[{"national_id":"1"},{"national_id":"2"},{"national_id":"3"},null]`)
	out, err := run(t, "", "batch", path)
	require.NoError(t, err)

	var got struct {
		Results []map[string]any `json:"results"`
		Summary struct {
			TotalRecords int `json:"totalRecords"`
			TopIssues    []struct {
				Issue string `json:"issue"`
				Count int    `json:"count"`
			} `json:"topIssues"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 4, got.Summary.TotalRecords)
	require.NotEmpty(t, got.Summary.TopIssues)
	assert.Equal(t, 3, got.Summary.TopIssues[0].Count)
}

func TestReadRecords_Errors(t *testing.T) {
	_, _, err := readRecords("-", strings.NewReader("   "))
	assert.Error(t, err)

	_, _, err = readRecords("-", strings.NewReader(`"just a string"`))
	assert.Error(t, err)

	_, _, err = readRecords(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}
