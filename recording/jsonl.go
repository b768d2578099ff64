package recording

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONLConfig configures JSONL parsing behavior.
type JSONLConfig struct {
	TrainField string // JSON field for the train label (required)
	TimeField  string // JSON field for the spike time in seconds (required)
}

// DefaultJSONLConfig returns a configuration with common defaults.
func DefaultJSONLConfig() JSONLConfig {
	return JSONLConfig{
		TrainField: "train",
		TimeField:  "time",
	}
}

// ParseJSONL parses a spike recording from a JSONL (JSON Lines) file.
// Each line must be a JSON object carrying the configured fields.
func ParseJSONL(filename string, config JSONLConfig) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseJSONLReader(f, config)
}

// ParseJSONLReader parses a spike recording from a JSONL reader.
func ParseJSONLReader(r io.Reader, config JSONLConfig) (*Recording, error) {
	if config.TrainField == "" {
		return nil, fmt.Errorf("TrainField is required")
	}
	if config.TimeField == "" {
		return nil, fmt.Errorf("TimeField is required")
	}

	rec := New()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var record map[string]interface{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}

		rawLabel, ok := record[config.TrainField]
		if !ok {
			return nil, fmt.Errorf("line %d: missing field %q", lineNum, config.TrainField)
		}
		label, ok := rawLabel.(string)
		if !ok || label == "" {
			return nil, fmt.Errorf("line %d: field %q must be a non-empty string", lineNum, config.TrainField)
		}

		rawTime, ok := record[config.TimeField]
		if !ok {
			return nil, fmt.Errorf("line %d: missing field %q", lineNum, config.TimeField)
		}
		t, ok := rawTime.(float64)
		if !ok {
			return nil, fmt.Errorf("line %d: field %q must be a number", lineNum, config.TimeField)
		}

		rec.Add(label, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return rec, nil
}

// WriteJSONL writes a recording as JSON Lines, one spike per line.
func WriteJSONL(rec *Recording, filename string, config JSONLConfig) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return WriteJSONLWriter(rec, f, config)
}

// WriteJSONLWriter writes a recording as JSON Lines to the given writer.
func WriteJSONLWriter(rec *Recording, w io.Writer, config JSONLConfig) error {
	if config.TrainField == "" || config.TimeField == "" {
		config = DefaultJSONLConfig()
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, label := range rec.Labels() {
		for _, t := range rec.trains[label] {
			row := map[string]interface{}{
				config.TrainField: label,
				config.TimeField:  t,
			}
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("encoding row: %w", err)
			}
		}
	}
	return bw.Flush()
}
