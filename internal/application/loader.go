package application

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-evalkit/internal/domain"
)

// Field aliases accepted when loading datasets. Public benchmark files
// disagree on field naming, so the loader normalizes the common
// variants instead of forcing a rewrite of every dataset.
var (
	inputAliases    = []string{"input", "question", "prompt"}
	expectedAliases = []string{"expected_output", "expected", "answer", "reference"}
	contextAliases  = []string{"context", "contexts"}
	idAliases       = []string{"case_id", "id"}
)

// LoadCases reads evaluation cases from a dataset file. The format is
// chosen by extension: .json (array of objects), .jsonl (one object per
// line), .csv (header row required), .yaml/.yml (sequence of mappings).
// Rows missing an input field are rejected with the row number so large
// datasets stay debuggable.
func LoadCases(path string) ([]domain.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(f)
	case ".jsonl", ".ndjson":
		return loadJSONL(f)
	case ".csv":
		return loadCSV(f)
	case ".yaml", ".yml":
		return loadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .json, .jsonl, .csv, .yaml)", filepath.Ext(path))
	}
}

// LoadSuite builds a suite named after the dataset file, with cases
// loaded from it. Metrics are attached by the caller.
func LoadSuite(path string) (*Suite, error) {
	cases, err := LoadCases(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewSuite(name).AddCases(cases...), nil
}

func loadJSON(r io.Reader) ([]domain.Case, error) {
	var rows []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse JSON dataset: %w", err)
	}
	return casesFromRows(rows)
}

func loadJSONL(r io.Reader) ([]domain.Case, error) {
	var rows []map[string]any
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("parse JSONL line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read JSONL dataset: %w", err)
	}
	return casesFromRows(rows)
}

func loadCSV(r io.Reader) ([]domain.Case, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV dataset has no header row")
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return casesFromRows(rows)
}

func loadYAML(r io.Reader) ([]domain.Case, error) {
	var rows []map[string]any
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse YAML dataset: %w", err)
	}
	return casesFromRows(rows)
}

func casesFromRows(rows []map[string]any) ([]domain.Case, error) {
	cases := make([]domain.Case, 0, len(rows))
	for i, row := range rows {
		c, err := caseFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i+1, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func caseFromRow(row map[string]any) (domain.Case, error) {
	input, ok := firstString(row, inputAliases)
	if !ok || input == "" {
		return domain.Case{}, fmt.Errorf("missing input field (accepted: %v)", inputAliases)
	}

	c := domain.Case{Input: input}
	if id, ok := firstString(row, idAliases); ok {
		c.ID = id
	}
	if expected, ok := firstString(row, expectedAliases); ok {
		c.ExpectedOutput = expected
	}
	c.Context = contextPassages(row)

	// Everything not consumed by a known field lands in metadata.
	known := make(map[string]struct{})
	for _, aliases := range [][]string{inputAliases, expectedAliases, contextAliases, idAliases} {
		for _, a := range aliases {
			known[a] = struct{}{}
		}
	}
	for key, val := range row {
		if _, reserved := known[key]; reserved {
			continue
		}
		if c.Metadata == nil {
			c.Metadata = make(map[string]any)
		}
		c.Metadata[key] = val
	}

	return c.WithDefaultID(), nil
}

// contextPassages extracts retrieval context as a string slice: a bare
// string becomes a single passage, a list keeps its elements.
func contextPassages(row map[string]any) []string {
	for _, alias := range contextAliases {
		raw, ok := row[alias]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			if v == "" {
				return nil
			}
			return []string{v}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return v
		}
	}
	return nil
}

func firstString(row map[string]any, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if raw, ok := row[alias]; ok {
			if s, ok := raw.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
