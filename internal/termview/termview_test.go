package termview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/graph"
	"github.com/starford/herbscope/internal/recommend"
	"github.com/starford/herbscope/internal/surface"
	"github.com/starford/herbscope/internal/testutil"
)

func TestShadeMap_Orientation(t *testing.T) {
	e := surface.New(surface.DefaultCoefficients())
	s, err := e.Compute(testutil.Store(t).Current(), "Tianma", "Quanxie", surface.Additivity, surface.Axis{Min: 0, Max: 10, Samples: 5})
	require.NoError(t, err)

	lines := strings.Split(ShadeMap(s, 0), "\n")
	require.Len(t, lines, 5)
	require.Len(t, lines[0], 5)
	// Bottom-left is the origin and the lowest response; top-right the highest.
	assert.Equal(t, shades[0], lines[4][0], "origin")
	assert.Equal(t, shades[len(shades)-1], lines[0][4], "corner")
}

func TestShadeMap_Downsamples(t *testing.T) {
	e := surface.New(surface.DefaultCoefficients())
	s, err := e.Compute(testutil.Store(t).Current(), "Tianma", "Quanxie", surface.Synergy, surface.DefaultAxis())
	require.NoError(t, err)

	lines := strings.Split(ShadeMap(s, 20), "\n")
	assert.LessOrEqual(t, len(lines), 20)
	assert.LessOrEqual(t, len(lines[0]), 20)
}

func TestShade_FlatSurface(t *testing.T) {
	assert.Equal(t, shades[len(shades)/2], shade(3, 3, 3))
}

func TestRecommendation(t *testing.T) {
	res, err := recommend.New().Recommend(testutil.Store(t).Current(), []recommend.Symptom{recommend.LimbConvulsion})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf).Recommendation(res))
	out := buf.String()
	for _, want := range []string{"Zhijing San", "Quanxie", "Wugong", "Jiangcan", "1. "} {
		assert.Contains(t, out, want)
	}
}

func TestHerbsAndGraph(t *testing.T) {
	ds := testutil.Store(t).Current()
	var buf bytes.Buffer
	r := New(&buf)
	require.NoError(t, r.Herbs(ds.Herbs[:3], ds.Len()))
	assert.Contains(t, buf.String(), "3 of 30 herbs")

	buf.Reset()
	sum := graph.NewAnalyzer(graph.DefaultConfig()).SummarizeTop(graph.Build(ds.Relations), 3)
	require.NoError(t, r.Graph(sum))
	require.NotEmpty(t, sum.Ranking)
	assert.Contains(t, buf.String(), sum.Ranking[0].Herb)
}
