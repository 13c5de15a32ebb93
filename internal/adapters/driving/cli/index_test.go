package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
}

func TestIndexCmd_Short(t *testing.T) {
	assert.Equal(t, "Build the search index from the mail archive", indexCmd.Short)
}

func TestIndexCmd_HasFlags(t *testing.T) {
	watch := indexCmd.Flags().Lookup("watch")
	require.NotNil(t, watch, "watch flag should exist")
	assert.Equal(t, "w", watch.Shorthand)

	assert.NotNil(t, indexCmd.Flags().Lookup("workers"), "workers flag should exist")
	assert.NotNil(t, indexCmd.Flags().Lookup("history"), "history flag should exist")
}

func TestIndexCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 3 messages into 2 records")
	assert.Contains(t, buf.String(), "Embedded 2 full texts")
}

func TestIndexCmd_ReportsFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &cliMockIndexerService{
		BuildIndexFunc: func(context.Context, domain.IndexOptions) (domain.IndexSummary, error) {
			return domain.IndexSummary{MessagesSeen: 5, Failed: 2, Records: 3}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "(2 failed)")
	assert.Contains(t, buf.String(), "exact-match mode")
}

func TestIndexCmd_PassesWorkersFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotWorkers int
	indexerService = &cliMockIndexerService{
		BuildIndexFunc: func(_ context.Context, opts domain.IndexOptions) (domain.IndexSummary, error) {
			gotWorkers = opts.Workers
			return domain.IndexSummary{}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--workers", "4"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexWorkers = 0
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 4, gotWorkers)
}

func TestIndexCmd_WatchStopsCleanly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--watch"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexWatch = false
	}()

	// The mock watch returns context.Canceled, as a real Ctrl-C would.
	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Stopped.")
}

func TestIndexCmd_WatchFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &cliMockIndexerService{
		WatchFunc: func(context.Context, domain.IndexOptions) error {
			return errors.New("archive vanished")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "--watch"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexWatch = false
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "watch failed")
}

func TestIndexCmd_History(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	started := time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)
	indexerService = &cliMockIndexerService{
		RunsFunc: func(context.Context, int) ([]domain.IndexRun, error) {
			return []domain.IndexRun{
				{
					StartedAt: started,
					EndedAt:   started.Add(3 * time.Second),
					Summary:   domain.IndexSummary{MessagesSeen: 10, Records: 4, Vectors: 4, Failed: 1},
				},
			}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--history"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexHistory = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Recent builds:")
	assert.Contains(t, buf.String(), "2025-08-23 10:00:00")
	assert.Contains(t, buf.String(), "10 messages, 4 records, 4 vectors")
	assert.Contains(t, buf.String(), "1 failed")
}

func TestIndexCmd_HistoryEmpty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--history"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexHistory = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No builds recorded yet.")
}

func TestIndexCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexerService
	indexerService = nil
	defer func() {
		indexerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "indexer service not configured")
}

func TestIndexCmd_BuildFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &cliMockIndexerService{
		BuildIndexFunc: func(context.Context, domain.IndexOptions) (domain.IndexSummary, error) {
			return domain.IndexSummary{}, domain.ErrArchiveUnavailable
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index build failed")
}
