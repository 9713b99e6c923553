package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/covidtesting/internal/dataset"
)

func TestPivot_LongToWide(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.Stage(ctx, []dataset.Observation{
		obs("2020-03-02", "NY", 200),
		obs("2020-03-01", "NY", 100),
		obs("2020-03-01", "WA", 50),
	}))

	tbl, err := s.Pivot(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"NY", "WA"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, dataset.Some(100), tbl.Cell(mustDay(t, "2020-03-01"), "NY"))
	assert.Equal(t, dataset.Some(200), tbl.Cell(mustDay(t, "2020-03-02"), "NY"))
	assert.Equal(t, dataset.Some(50), tbl.Cell(mustDay(t, "2020-03-01"), "WA"))

	// WA did not report on 03-02: missing, not zero.
	assert.False(t, tbl.Cell(mustDay(t, "2020-03-02"), "WA").Valid)
}

func TestPivot_AveragesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.Stage(ctx, []dataset.Observation{
		obs("2020-03-01", "NY", 100),
		obs("2020-03-01", "NY", 300),
		obs("2020-03-01", "NY", -1),
	}))

	tbl, err := s.Pivot(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.Some(200), tbl.Cell(mustDay(t, "2020-03-01"), "NY"))
}

func TestPivot_DropsAllMissingRowsAndColumns(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.Stage(ctx, []dataset.Observation{
		obs("2020-03-01", "NY", 100),
		obs("2020-03-01", "AS", -1),
		obs("2020-02-28", "NY", -1),
	}))

	tbl, err := s.Pivot(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"NY"}, tbl.Columns())
	assert.Equal(t, 1, tbl.Len())
}

func TestPivot_Empty(t *testing.T) {
	s := createTestStore(t)

	tbl, err := s.Pivot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Columns())
}

func TestStageAndReset(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.Stage(ctx, []dataset.Observation{
		obs("2020-03-01", "NY", 1),
		obs("2020-03-01", "WA", -1),
	}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Reset(ctx))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := createTestStore(t)

	err := s.Stage(ctx, []dataset.Observation{obs("2020-03-01", "NY", 1)})
	assert.Error(t, err)
}
