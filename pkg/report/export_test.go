package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pulse/pkg/analytics"
)

func buildTestReport() *Report {
	generatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Report{
		GeneratedAt: generatedAt,
		Sales: map[string]analytics.SalesMetrics{
			"daily": {TotalRevenue: 175.50, TotalOrders: 3, AverageOrderValue: 58.50, Period: "daily"},
		},
		Users: analytics.UserMetrics{TotalUsers: 3, ActiveUsers: 2, NewUsers: 1, RetentionRate: 66.67},
		TopEvents: []analytics.EventCount{
			{EventType: "page_view", Count: 3},
			{EventType: "click", Count: 1},
		},
		RevenueGrowth: GrowthSummary{Days: 30, GrowthRate: -24.5},
		Engagement:    EngagementSummary{WindowDays: 7, Rate: 66.67, ByEventTypes: 66.67},
		InactiveUsers: InactiveSummary{Days: 30, UserIDs: []string{"user-3", "user-9"}},
		Alerts: []analytics.Alert{
			{
				Type:        "revenue",
				Severity:    analytics.SeverityWarning,
				Title:       "Revenue growth below threshold",
				Message:     "Revenue growth over the current window fell below the configured minimum",
				TriggeredAt: generatedAt,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "ndjson", "csv"} {
		format, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), format)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestExportJSON(t *testing.T) {
	rep := buildTestReport()

	data, err := Export(rep, FormatJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON and round-trips
	var parsed Report
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)
	assert.Equal(t, rep.Users, parsed.Users)
	assert.Equal(t, rep.TopEvents, parsed.TopEvents)
	assert.Equal(t, rep.InactiveUsers, parsed.InactiveUsers)

	// MarshalIndent output is human-readable
	assert.Contains(t, string(data), "\n  \"generated_at\"")
}

func TestExportNDJSON(t *testing.T) {
	rep := buildTestReport()

	data, err := Export(rep, FormatNDJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify each line is valid JSON with a section name
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 7)

	wantSections := []string{"sales", "users", "top_events", "revenue_growth", "engagement", "inactive_users", "alerts"}
	for i, line := range lines {
		var decoded ndjsonLine
		err := json.Unmarshal([]byte(line), &decoded)
		require.NoError(t, err)
		assert.Equal(t, wantSections[i], decoded.Section)
		assert.Equal(t, "2026-03-01T12:00:00Z", decoded.GeneratedAt)
		assert.NotNil(t, decoded.Data)
	}
}

func TestExportCSV(t *testing.T) {
	rep := buildTestReport()

	data, err := Export(rep, FormatCSV)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)

	// Header plus one row per top event and per inactive user
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Section", "EventType", "Count", "UserID"}, records[0])
	assert.Equal(t, []string{"top_events", "page_view", "3", ""}, records[1])
	assert.Equal(t, []string{"top_events", "click", "1", ""}, records[2])
	assert.Equal(t, []string{"inactive_users", "", "", "user-3"}, records[3])
	assert.Equal(t, []string{"inactive_users", "", "", "user-9"}, records[4])
}

func TestExportCSV_EmptyTables(t *testing.T) {
	rep := buildTestReport()
	rep.TopEvents = nil
	rep.InactiveUsers.UserIDs = nil

	data, err := Export(rep, FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := Export(buildTestReport(), Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestWriteFiles(t *testing.T) {
	rep := buildTestReport()
	dir := t.TempDir()

	written, err := WriteFiles(rep, dir, []Format{FormatJSON, FormatNDJSON, FormatCSV})
	require.NoError(t, err)
	require.Len(t, written, 3)

	assert.Equal(t, filepath.Join(dir, "report.json"), written[0])
	assert.Equal(t, filepath.Join(dir, "report.ndjson"), written[1])
	assert.Equal(t, filepath.Join(dir, "report.csv"), written[2])

	for _, path := range written {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestWriteFiles_CreatesDirectory(t *testing.T) {
	rep := buildTestReport()
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	written, err := WriteFiles(rep, dir, []Format{FormatJSON})
	require.NoError(t, err)
	require.Len(t, written, 1)

	_, err = os.Stat(written[0])
	require.NoError(t, err)
}

func TestWriteFiles_UnsupportedFormat(t *testing.T) {
	rep := buildTestReport()

	_, err := WriteFiles(rep, t.TempDir(), []Format{Format("xml")})
	require.Error(t, err)
}
