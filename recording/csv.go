package recording

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVConfig configures CSV parsing behavior.
type CSVConfig struct {
	TrainField string // column for the train label (required)
	TimeField  string // column for the spike time in seconds (required)
	Delimiter  rune   // field delimiter, ',' if zero
}

// DefaultCSVConfig returns a configuration with common defaults.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		TrainField: "train",
		TimeField:  "time",
		Delimiter:  ',',
	}
}

// ParseCSV parses a spike recording from a CSV file with a header row.
func ParseCSV(filename string, config CSVConfig) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseCSVReader(f, config)
}

// ParseCSVReader parses a spike recording from a CSV reader.
func ParseCSVReader(r io.Reader, config CSVConfig) (*Recording, error) {
	if config.TrainField == "" {
		return nil, fmt.Errorf("TrainField is required")
	}
	if config.TimeField == "" {
		return nil, fmt.Errorf("TimeField is required")
	}

	reader := csv.NewReader(r)
	if config.Delimiter != 0 {
		reader.Comma = config.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	trainIdx := -1
	timeIdx := -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case config.TrainField:
			trainIdx = i
		case config.TimeField:
			timeIdx = i
		}
	}
	if trainIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header", config.TrainField)
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header", config.TimeField)
	}

	rec := New()
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		lineNum++

		label := strings.TrimSpace(record[trainIdx])
		if label == "" {
			return nil, fmt.Errorf("line %d: empty train label", lineNum)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid spike time %q", lineNum, record[timeIdx])
		}
		rec.Add(label, t)
	}

	return rec, nil
}

// WriteCSV writes a recording as CSV with a header row, one spike per
// line, trains in first-seen order.
func WriteCSV(rec *Recording, filename string, config CSVConfig) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return WriteCSVWriter(rec, f, config)
}

// WriteCSVWriter writes a recording as CSV to the given writer.
func WriteCSVWriter(rec *Recording, w io.Writer, config CSVConfig) error {
	if config.TrainField == "" || config.TimeField == "" {
		config = DefaultCSVConfig()
	}

	writer := csv.NewWriter(w)
	if config.Delimiter != 0 {
		writer.Comma = config.Delimiter
	}

	if err := writer.Write([]string{config.TrainField, config.TimeField}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, label := range rec.Labels() {
		for _, t := range rec.trains[label] {
			row := []string{label, strconv.FormatFloat(t, 'g', -1, 64)}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
