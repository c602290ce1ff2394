package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"atelier-backend/config"
	"atelier-backend/models"
	"atelier-backend/testutil"
	"atelier-backend/utils"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func numberingConfig() config.NumberingConfig {
	return config.NumberingConfig{
		DefaultPad: 4,
		Prefixes:   map[string]string{"invoice": "FA-", "quote": "DE-"},
	}
}

func fixedClock() time.Time {
	return time.UnixMilli(1_700_000_001_234)
}

func TestNext_IssuesSequentialNumbers(t *testing.T) {
	db := testutil.DB(t)
	svc := NewNumberingService(db, numberingConfig(), utils.NopLogger())
	ctx := context.Background()

	_, ok, err := svc.Current(ctx, "invoice")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "FA-0001", svc.Next(ctx, "invoice", 4))
	assert.Equal(t, "FA-0002", svc.Next(ctx, "invoice", 0))
	assert.Equal(t, "FA-0003", svc.Next(ctx, "invoice", -1))

	last, ok, err := svc.Current(ctx, "invoice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), last)

	var seq models.Sequence
	require.NoError(t, db.Where("name = ?", "invoice").Take(&seq).Error)
	assert.Equal(t, "FA-", seq.Prefix)
}

func TestNext_SequencesAreIndependent(t *testing.T) {
	svc := NewNumberingService(testutil.DB(t), numberingConfig(), utils.NopLogger())
	ctx := context.Background()

	assert.Equal(t, "FA-0001", svc.Next(ctx, "invoice", 4))
	assert.Equal(t, "DE-0001", svc.Next(ctx, "quote", 4))
	assert.Equal(t, "0001", svc.Next(ctx, "ticket", 4))
	assert.Equal(t, "FA-0002", svc.Next(ctx, "invoice", 4))
}

func TestNext_UsesStoredPrefixAndPad(t *testing.T) {
	db := testutil.DB(t)
	require.NoError(t, db.Create(&models.Sequence{Name: "quote", Prefix: "Q-", LastNumber: 41}).Error)
	svc := NewNumberingService(db, numberingConfig(), utils.NopLogger())
	ctx := context.Background()

	assert.Equal(t, "Q-00042", svc.Next(ctx, "quote", 5))
	// A pad narrower than the number never truncates it.
	assert.Equal(t, "Q-43", svc.Next(ctx, "quote", 1))
}

func TestNext_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	svc := NewNumberingService(testutil.DB(t), numberingConfig(), utils.NopLogger())
	ctx := context.Background()
	const callers = 20

	got := make([]string, callers)
	var g errgroup.Group
	for i := range got {
		g.Go(func() error {
			got[i] = svc.Next(ctx, "invoice", 4)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(got)
	want := make([]string, callers)
	for i := range want {
		want[i] = fmt.Sprintf("FA-%04d", i+1)
	}
	assert.Equal(t, want, got)

	last, ok, err := svc.Current(ctx, "invoice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(callers), last)
}

func TestNext_FallsBackWhenDatabaseUnavailable(t *testing.T) {
	db := testutil.DB(t)
	svc := NewNumberingService(db, numberingConfig(), utils.NopLogger()).WithClock(fixedClock)
	ctx := context.Background()
	assert.Equal(t, "FA-0001", svc.Next(ctx, "invoice", 4))

	testutil.CloseDB(t, db)
	before := promtest.ToFloat64(sequenceNumbersIssued.WithLabelValues("fallback"))

	assert.Equal(t, "FA-1234", svc.Next(ctx, "invoice", 4))
	assert.Equal(t, "DE-001234", svc.Next(ctx, "quote", 6))
	assert.Equal(t, before+2, promtest.ToFloat64(sequenceNumbersIssued.WithLabelValues("fallback")))

	_, _, err := svc.Current(ctx, "invoice")
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
}

func TestNext_WithoutDatabase(t *testing.T) {
	svc := NewNumberingService(nil, numberingConfig(), utils.NopLogger()).WithClock(fixedClock)
	ctx := context.Background()

	assert.Equal(t, "FA-1234", svc.Next(ctx, "invoice", 0))
	assert.Equal(t, "34", svc.Next(ctx, "other", 2))

	_, ok, err := svc.Current(ctx, "invoice")
	require.NoError(t, err)
	assert.False(t, ok)
}
