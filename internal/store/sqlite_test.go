package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/cfi-cli/internal/model"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	require.NoError(t, reg.Migrate(context.Background()))
	return reg
}

func TestSaveRun_AssignsID(t *testing.T) {
	reg := testRegistry(t)

	report := &model.RunReport{
		Year:       2021,
		RowsJoined: 120,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	require.NoError(t, reg.SaveRun(context.Background(), report))
	assert.NotEmpty(t, report.ID)
}

func TestGetRun_RoundTrip(t *testing.T) {
	reg := testRegistry(t)
	ctx := context.Background()

	report := &model.RunReport{
		Year:               2021,
		RowsJoined:         120,
		RowsRanked:         118,
		UndefinedIndexRows: 2,
		GeoMappingMisses:   3,
		Artifacts:          []string{"output/cfi_export_2021.csv"},
		StartedAt:          time.Now().UTC().Truncate(time.Millisecond),
		FinishedAt:         time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, reg.SaveRun(ctx, report))

	got, err := reg.GetRun(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Year, got.Year)
	assert.Equal(t, report.RowsRanked, got.RowsRanked)
	assert.Equal(t, report.UndefinedIndexRows, got.UndefinedIndexRows)
	assert.Equal(t, report.Artifacts, got.Artifacts)
}

func TestGetRun_NotFound(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.GetRun(context.Background(), "missing")
	assert.Error(t, err)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	reg := testRegistry(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		report := &model.RunReport{
			Year:       2019 + i,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		require.NoError(t, reg.SaveRun(ctx, report))
	}

	runs, err := reg.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2021, runs[0].Year)
	assert.Equal(t, 2020, runs[1].Year)

	all, err := reg.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
