package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "medstock_test", Environment: "development", Timezone: "UTC"},
		Store:  config.StoreConfig{Driver: config.StoreMemory},
		Alerts: config.AlertConfig{BufferSize: 10, PublishTimeout: time.Second, ShutdownTimeout: time.Second},
		Seed:   config.SeedConfig{Enabled: true},
	}
}

func TestRunExport_Stdout(t *testing.T) {
	var out bytes.Buffer
	err := runExport(context.Background(), testConfig(), zap.NewNop(), exportFlags{
		view:   "patients",
		format: "csv",
		out:    "-",
		search: "chen",
	}, &out)
	require.NoError(t, err)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Name", records[0][0])
	assert.Equal(t, "Michael Chen", records[1][0])
}

func TestRunExport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	var out bytes.Buffer
	err := runExport(context.Background(), testConfig(), zap.NewNop(), exportFlags{
		view:   "inventory",
		format: "xlsx",
		out:    path,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "wrote 6 rows")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunExport_RejectsUnknownView(t *testing.T) {
	err := runExport(context.Background(), testConfig(), zap.NewNop(), exportFlags{view: "billing", format: "csv"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunExport_InvalidSort(t *testing.T) {
	err := runExport(context.Background(), testConfig(), zap.NewNop(), exportFlags{view: "logs", format: "csv", out: "-", sort: "cost"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "validation failed")
}
