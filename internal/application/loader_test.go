package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalkit/internal/domain"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCases_JSON(t *testing.T) {
	path := writeDataset(t, "cases.json", `[
		{"input": "q1", "expected_output": "a1", "context": ["p1", "p2"]},
		{"case_id": "custom", "input": "q2", "expected_output": "a2", "difficulty": "hard"}
	]`)

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "q1", cases[0].Input)
	assert.Equal(t, "a1", cases[0].ExpectedOutput)
	assert.Equal(t, []string{"p1", "p2"}, cases[0].Context)
	assert.Equal(t, domain.DefaultCaseID("q1"), cases[0].ID, "missing IDs are derived from the input")

	assert.Equal(t, "custom", cases[1].ID)
	assert.Equal(t, "hard", cases[1].Metadata["difficulty"], "unknown fields land in metadata")
}

func TestLoadCases_JSONL(t *testing.T) {
	path := writeDataset(t, "cases.jsonl", `{"question": "q1", "answer": "a1"}

{"prompt": "q2", "reference": "a2", "context": "single passage"}
`)

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	// Field aliases: question/prompt map to input, answer/reference to
	// expected output.
	assert.Equal(t, "q1", cases[0].Input)
	assert.Equal(t, "a1", cases[0].ExpectedOutput)
	assert.Equal(t, "q2", cases[1].Input)
	assert.Equal(t, "a2", cases[1].ExpectedOutput)
	assert.Equal(t, []string{"single passage"}, cases[1].Context,
		"a bare string context becomes a single passage")
}

func TestLoadCases_CSV(t *testing.T) {
	path := writeDataset(t, "cases.csv", "input,expected_output,topic\nq1,a1,math\nq2,a2,history\n")

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "q1", cases[0].Input)
	assert.Equal(t, "a1", cases[0].ExpectedOutput)
	assert.Equal(t, "math", cases[0].Metadata["topic"])
}

func TestLoadCases_YAML(t *testing.T) {
	path := writeDataset(t, "cases.yaml", `
- input: q1
  expected_output: a1
- input: q2
  context:
    - passage one
    - passage two
`)

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "a1", cases[0].ExpectedOutput)
	assert.Equal(t, []string{"passage one", "passage two"}, cases[1].Context)
}

func TestLoadCases_MissingInput(t *testing.T) {
	path := writeDataset(t, "cases.jsonl", `{"input": "fine"}
{"expected_output": "no input here"}
`)

	_, err := LoadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2", "the error should name the offending row")
	assert.Contains(t, err.Error(), "missing input field")
}

func TestLoadCases_UnsupportedFormat(t *testing.T) {
	path := writeDataset(t, "cases.txt", "q1\n")
	_, err := LoadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset format")
}

func TestLoadCases_FileNotFound(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadSuite_NamesSuiteFromFile(t *testing.T) {
	path := writeDataset(t, "geography_qa.json", `[{"input": "q1"}]`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Equal(t, "geography_qa", suite.Name)
	require.Len(t, suite.Cases, 1)
	assert.NotEmpty(t, suite.Cases[0].ID)
	assert.NoError(t, suite.Validate())
}
