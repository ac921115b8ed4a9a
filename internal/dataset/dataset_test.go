package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
)

func TestDefault(t *testing.T) {
	ds := Default()
	require.Equal(t, 30, ds.Len())
	require.NotEmpty(t, ds.Relations)

	r, ok := ds.Lookup("石菖蒲")
	require.True(t, ok)
	require.Equal(t, "Shichangpu", r.Name)
	assert.Equal(t, herb.NatureWarm, r.Nature)
	assert.Equal(t, herb.MeridianHeart, r.Meridian)
	assert.Equal(t, herb.EraSong, r.Era)
	assert.NotEmpty(t, ds.Checksum)

	// Rule herbs must all exist in the default data.
	for _, n := range []string{"Shichangpu", "Dannanxing", "Yujin", "Quanxie", "Wugong", "Jiangcan", "Chuanxiong", "Danshen", "Chishao", "Tianma", "Gouteng"} {
		assert.True(t, ds.Has(n), "default dataset lacks %s", n)
	}
}

func TestNormalize_DefaultsAndLabels(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
herbs:
  - {name: " 远志 ", frequency: 12}
  - {name: Tianma, frequency: 3, category: 息风止痉药, nature: 平, flavor: 甘, meridian: 肝经, era: 宋代}
  - {name: Gouteng, alias: 钩藤, frequency: 7, category: Wind_Extinguishing, nature: COOL, era: Jin Yuan}
relations:
  - {source: tianma, target: 钩藤}
`), FormatYAML)
	require.NoError(t, err)
	recs, rels, err := Normalize(doc)
	require.NoError(t, err)

	assert.Equal(t, herb.Record{
		Name: "远志", Frequency: 12,
		Category: herb.CategoryUnknown, Nature: herb.NatureNeutral, Flavor: herb.FlavorSweet,
		Meridian: herb.MeridianLiver, Dose: 10, Era: herb.EraContemporary,
		Molecular: herb.Molecular{Weight: 300, LogP: 2.5, OralBioavailability: 50},
	}, recs[0], "defaults")

	// local labels
	assert.Equal(t, herb.CategoryWindExtinguishing, recs[1].Category)
	assert.Equal(t, herb.EraSong, recs[1].Era)
	assert.Equal(t, herb.NatureNeutral, recs[1].Nature)

	// tag forms
	assert.Equal(t, herb.CategoryWindExtinguishing, recs[2].Category)
	assert.Equal(t, herb.NatureCool, recs[2].Nature)
	assert.Equal(t, herb.EraJinYuan, recs[2].Era)

	assert.Equal(t, []herb.Relation{{Source: "Tianma", Target: "Gouteng", Weight: 1}}, rels)
}

func TestNormalize_Rejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing name", `herbs: [{frequency: 1}]`},
		{"missing frequency", `herbs: [{name: A}]`},
		{"negative frequency", `herbs: [{name: A, frequency: -1}]`},
		{"bad nature", `herbs: [{name: A, frequency: 1, nature: lukewarm}]`},
		{"zero dose", `herbs: [{name: A, frequency: 1, dose: 0}]`},
		{"ob above 100", `herbs: [{name: A, frequency: 1, molecular: {ob: 120}}]`},
		{"duplicate name", `herbs: [{name: A, frequency: 1}, {name: a, frequency: 2}]`},
		{"alias clash", `herbs: [{name: A, frequency: 1}, {name: B, alias: A, frequency: 2}]`},
		{"unknown endpoint", "herbs: [{name: A, frequency: 1}]\nrelations: [{source: A, target: Z}]"},
		{"self loop", "herbs: [{name: A, frequency: 1}]\nrelations: [{source: A, target: a}]"},
		{"zero weight", "herbs: [{name: A, frequency: 1}, {name: B, frequency: 1}]\nrelations: [{source: A, target: B, weight: 0}]"},
		{"unknown field", `herbs: [{name: A, frequency: 1, colour: red}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tc.doc), FormatYAML)
			assert.ErrorIs(t, err, apperr.ErrInvalidDataset)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	recs, rels, err := Parse([]byte(`{"herbs":[{"name":"A","frequency":2,"nature":"温"},{"name":"B","frequency":1}],
		"relations":[{"source":"A","target":"B","weight":4},{"source":"B","target":"A","weight":4}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, herb.NatureWarm, recs[0].Nature)
	assert.Len(t, rels, 2, "parallel relations must be kept")
}

func TestWriteFile_RoundTrip(t *testing.T) {
	src := Default()
	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		require.NoError(t, WriteFile(path, src), "WriteFile(%s)", name)

		got, err := File{Path: path}.Load(context.Background())
		require.NoError(t, err, "Load(%s)", name)
		assert.Equal(t, src.Herbs, got.Herbs, "%s: herbs differ after round trip", name)
		assert.Equal(t, src.Relations, got.Relations, "%s: relations differ after round trip", name)
	}
}

func writeDoc(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herbs.yaml")
	writeDoc(t, path, `herbs: [{name: A, frequency: 1}]`)
	src := File{Path: path}
	ctx := context.Background()

	first, err := src.Load(ctx)
	require.NoError(t, err)
	store := NewStore(first)

	_, changed, err := store.Reload(ctx, src)
	require.NoError(t, err)
	require.False(t, changed, "unchanged reload")

	writeDoc(t, path, `herbs: [{name: A, frequency: 1}, {name: B, frequency: 2}]`)
	ds, changed, err := store.Reload(ctx, src)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 2, ds.Len())
	require.Equal(t, 2, store.Current().Len())

	writeDoc(t, path, `herbs: [{name: B}]`)
	_, _, err = store.Reload(ctx, src)
	require.ErrorIs(t, err, apperr.ErrInvalidDataset)
	assert.Equal(t, 2, store.Current().Len(), "failed reload must keep the previous snapshot")
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "herbs.yaml")
	writeDoc(t, path, `herbs: [{name: A, frequency: 1}]`)
	src := File{Path: path}
	first, err := src.Load(context.Background())
	require.NoError(t, err)
	store := NewStore(first)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var kinds []string
	go Watch(ctx, store, src, logger, func(kind, _ string) {
		mu.Lock()
		kinds = append(kinds, kind)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	writeDoc(t, filepath.Join(dir, "other.yaml"), `junk`)
	writeDoc(t, path, `herbs: [{name: A, frequency: 1}, {name: B, frequency: 1}]`)

	require.Eventually(t, func() bool { return store.Current().Len() == 2 },
		5*time.Second, 50*time.Millisecond, "watcher did not reload the dataset")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return slices.Contains(kinds, EventReloaded)
	}, 5*time.Second, 50*time.Millisecond, "expected a %q callback", EventReloaded)
}
