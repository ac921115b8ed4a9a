package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/herb"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "herbscope-test-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"snapshot", "herbs", "relations"} {
		var count int
		err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count)
		require.NoError(t, err, "%s table missing", table)
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	db := testDB(t)
	_, err := db.Load(context.Background())
	assert.ErrorIs(t, err, apperr.ErrEmptyDataset)
}

func TestReplaceAndLoad(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	src := dataset.Default()

	require.NoError(t, db.Replace(ctx, src, "embedded:default"))
	got, err := db.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, src.Herbs, got.Herbs)
	assert.Equal(t, src.Relations, got.Relations)
	assert.Equal(t, src.Checksum, got.Checksum)
	_, ok := got.Lookup("全蝎")
	assert.True(t, ok, "alias index not rebuilt on load")

	info, err := db.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, info.Herbs)
	assert.Equal(t, len(src.Relations), info.Relations)
	assert.Equal(t, "embedded:default", info.Source)
}

func TestReplace_OverwritesAndKeepsParallelEdges(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, db.Replace(ctx, dataset.Default(), "first"))

	rec := func(n string) herb.Record {
		return herb.Record{Name: n, Frequency: 1, Category: herb.CategoryUnknown, Nature: herb.NatureNeutral,
			Flavor: herb.FlavorSweet, Meridian: herb.MeridianLiver, Dose: 10, Era: herb.EraHan,
			Molecular: herb.Molecular{Weight: 300, LogP: 2.5, OralBioavailability: 50}}
	}
	small := herb.NewDataset(
		[]herb.Record{rec("A"), rec("B")},
		[]herb.Relation{{Source: "A", Target: "B", Weight: 2}, {Source: "A", Target: "B", Weight: 2}},
		"abc", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	)
	require.NoError(t, db.Replace(ctx, small, "second"))

	got, err := db.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	require.Len(t, got.Relations, 2)
	assert.True(t, got.LoadedAt.Equal(small.LoadedAt), "loaded_at = %v, want %v", got.LoadedAt, small.LoadedAt)
}

func TestReplace_RejectsSelfLoop(t *testing.T) {
	db := testDB(t)
	bad := herb.NewDataset(
		[]herb.Record{{Name: "A", Dose: 1}},
		[]herb.Relation{{Source: "A", Target: "A", Weight: 1}},
		"x", time.Now(),
	)
	require.Error(t, db.Replace(context.Background(), bad, "bad"), "expected constraint violation")

	_, err := db.Load(context.Background())
	assert.ErrorIs(t, err, apperr.ErrEmptyDataset, "failed replace must roll back")
}
