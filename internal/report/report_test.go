package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
)

func rec(name string, freq int, cat herb.Category, nat herb.Nature, mer herb.Meridian, era herb.Era, mw, logp float64) herb.Record {
	return herb.Record{
		Name: name, Frequency: freq, Category: cat, Nature: nat, Flavor: herb.FlavorPungent,
		Meridian: mer, Dose: 9, Era: era,
		Molecular: herb.Molecular{Weight: mw, LogP: logp, OralBioavailability: 50},
	}
}

func sample() *herb.Dataset {
	return herb.NewDataset([]herb.Record{
		rec("Quanxie", 480, herb.CategoryWindExtinguishing, herb.NatureNeutral, herb.MeridianLiver, herb.EraMing, 350, 2.8),
		rec("Shichangpu", 560, herb.CategoryOpeningOrifices, herb.NatureWarm, herb.MeridianHeart, herb.EraSong, 208, 3.2),
		rec("Wugong", 410, herb.CategoryWindExtinguishing, herb.NatureWarm, herb.MeridianLiver, herb.EraMing, 320, 2.6),
		rec("Huangqi", 330, herb.CategoryQiTonifying, herb.NatureWarm, herb.MeridianLung, herb.EraHan, 784, 1.6),
	}, nil, "0123456789abcdef", time.Time{})
}

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r, err := Generate(sample(), now)
	require.NoError(t, err)

	assert.Equal(t, 4, r.TotalHerbs)
	assert.Equal(t, HerbCount{Name: "Shichangpu", Frequency: 560}, r.TopHerb)
	assert.Equal(t, herb.CategoryWindExtinguishing, r.Dominant.Category)
	assert.Equal(t, 2, r.Dominant.Count)
	assert.Equal(t, 50.0, r.Dominant.Percent)
	assert.Equal(t, herb.NatureWarm, r.Nature)
	assert.Equal(t, herb.MeridianLiver, r.Meridian)
	assert.Equal(t, herb.FlavorPungent, r.Flavor)
	assert.Equal(t, 2.55, r.MeanLogP)
	assert.Equal(t, RatingExcellent, r.BBBRating)
	assert.Equal(t, []string{"Quanxie", "Shichangpu", "Wugong"}, r.BBBCandidates)
	assert.Equal(t, "0123456789ab", r.Checksum)

	require.Len(t, r.Timeline, 3)
	assert.Equal(t, herb.EraHan, r.Timeline[0].Era)
	assert.Equal(t, herb.EraMing, r.Timeline[2].Era)
	assert.Equal(t, 890, r.Timeline[2].Categories[herb.CategoryWindExtinguishing])

	require.Len(t, r.Meridians, len(herb.AllMeridians()))
	assert.Equal(t, 890, r.Meridians[0].Frequency)
}

func TestGenerate_ModerateRating(t *testing.T) {
	ds := herb.NewDataset([]herb.Record{
		rec("A", 1, herb.CategoryCalming, herb.NatureCold, herb.MeridianHeart, herb.EraQing, 500, 0.5),
	}, nil, "", time.Time{})
	r, err := Generate(ds, time.Now())
	require.NoError(t, err)
	assert.Equal(t, RatingModerate, r.BBBRating)
	assert.Empty(t, r.BBBCandidates)
}

func TestGenerate_Empty(t *testing.T) {
	_, err := Generate(herb.NewDataset(nil, nil, "", time.Time{}), time.Now())
	assert.ErrorIs(t, err, apperr.ErrEmptyDataset)
}

func TestMarkdown(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r, err := Generate(sample(), now)
	require.NoError(t, err)

	md := r.Markdown()
	for _, want := range []string{
		"**4** herbs",
		"**Shichangpu**",
		"**50.0%**",
		"rated **excellent**",
		"| liver | 890 |",
		"| ming | 890 | wind-extinguishing |",
		"*Generated 2024-05-01 09:30 (dataset 0123456789ab)*",
	} {
		assert.Contains(t, md, want)
	}
}
