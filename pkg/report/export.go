package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Format identifies a report export encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson" // Newline-delimited JSON, one section per line
	FormatCSV    Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatNDJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Export renders the report in the requested format.
func Export(r *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportJSON(r)
	case FormatNDJSON:
		return exportNDJSON(r)
	case FormatCSV:
		return exportCSV(r)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportJSON exports the full report as indented JSON
func exportJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ndjsonLine is one section of the report in the NDJSON export. Every
// line repeats the report timestamp so lines stay meaningful when
// streams from several runs are concatenated.
type ndjsonLine struct {
	Section     string      `json:"section"`
	GeneratedAt string      `json:"generated_at"`
	Data        interface{} `json:"data"`
}

// exportNDJSON exports the report as newline-delimited JSON, one
// section per line
func exportNDJSON(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)

	generatedAt := r.GeneratedAt.Format(time.RFC3339)
	sections := []struct {
		name string
		data interface{}
	}{
		{"sales", r.Sales},
		{"users", r.Users},
		{"top_events", r.TopEvents},
		{"revenue_growth", r.RevenueGrowth},
		{"engagement", r.Engagement},
		{"inactive_users", r.InactiveUsers},
		{"alerts", r.Alerts},
	}

	for _, section := range sections {
		line := ndjsonLine{
			Section:     section.name,
			GeneratedAt: generatedAt,
			Data:        section.data,
		}
		if err := encoder.Encode(line); err != nil {
			return nil, fmt.Errorf("failed to encode section %s: %w", section.name, err)
		}
	}

	return buf.Bytes(), nil
}

// exportCSV exports the report's tabular sections: the event ranking
// and the inactive-user list. Scalar sections have no natural CSV shape
// and are covered by the JSON exports.
func exportCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Section", "EventType", "Count", "UserID"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, ec := range r.TopEvents {
		row := []string{"top_events", ec.EventType, strconv.Itoa(ec.Count), ""}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	for _, userID := range r.InactiveUsers.UserIDs {
		row := []string{"inactive_users", "", "", userID}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFiles exports the report into dir, one file per format, and
// returns the written paths. The directory is created if missing.
func WriteFiles(r *Report, dir string, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		data, err := Export(r, format)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, "report."+string(format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}
