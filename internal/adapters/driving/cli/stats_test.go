package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

func testUsageSummary() *domain.UsageSummary {
	return &domain.UsageSummary{
		TotalRequests:    12,
		TotalTokens:      3600,
		TotalCost:        0.0421,
		AvgTokensPerCall: 300,
		ByModel: []domain.ModelUsage{
			{Model: "gpt-4o-mini", Requests: 10, Tokens: 3000, Cost: 0.0021},
			{Model: "claude-3-5-sonnet-latest", Requests: 2, Tokens: 600, Cost: 0.04},
		},
		ByDay: []domain.DailyUsage{
			{Date: "2025-06-01", Requests: 5, Tokens: 1500, Cost: 0.001},
			{Date: "2025-06-02", Requests: 7, Tokens: 2100, Cost: 0.0411},
		},
	}
}

func TestStatsCmd_PrintsTotals(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	usageStore = &mockUsageStore{summary: testUsageSummary()}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Requests:       12")
	assert.Contains(t, out, "3600 (avg 300 per call)")
	assert.Contains(t, out, "$0.0421")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "2025-06-02")
}

func TestStatsCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	usageStore = &mockUsageStore{summary: testUsageSummary()}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		statsJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"total_requests\": 12")
	assert.Contains(t, buf.String(), "\"by_model\"")
}

func TestStatsCmd_WritesCSV(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	usageStore = &mockUsageStore{summary: testUsageSummary()}

	path := filepath.Join(t.TempDir(), "usage.csv")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--csv", path})
	defer func() {
		rootCmd.SetArgs(nil)
		statsCSV = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,requests,tokens,cost")
	assert.Contains(t, string(data), "2025-06-01,5,1500,0.0010")
}

func TestStatsCmd_RecentRequests(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	usageStore = &mockUsageStore{
		summary: testUsageSummary(),
		recent: []domain.RequestRecord{
			{
				Model:            "gpt-4o-mini",
				PromptTokens:     200,
				CompletionTokens: 100,
				Cost:             0.0009,
				CreatedAt:        time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--recent", "5"})
	defer func() {
		rootCmd.SetArgs(nil)
		statsRecent = 0
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Recent requests:")
	assert.Contains(t, buf.String(), "2025-06-02 14:30")
	assert.Contains(t, buf.String(), "300 tokens")
}

func TestStatsCmd_StoreNotConfigured(t *testing.T) {
	oldStore := usageStore
	usageStore = nil
	defer func() {
		usageStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "usage store not configured")
}
