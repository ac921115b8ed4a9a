package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/graph"
	"github.com/starford/herbscope/internal/herb"
)

func rel(a, b string, w int) herb.Relation {
	return herb.Relation{Source: a, Target: b, Weight: w}
}

func TestBuild_Path(t *testing.T) {
	g := graph.Build([]herb.Relation{rel("A", "B", 5), rel("B", "C", 3)})
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	dc, err := g.DegreeCentrality()
	require.NoError(t, err)
	assert.Greater(t, dc["B"], dc["A"])
	assert.Greater(t, dc["B"], dc["C"])
	assert.InDelta(t, 1.0, dc["B"], 1e-12)
	assert.InDelta(t, 0.5, dc["A"], 1e-12)

	assert.InDelta(t, 2.0/3.0, g.Density(), 1e-12)
	assert.Equal(t, 1, g.Components())
	assert.Equal(t, map[string]int{"A": 5, "B": 8, "C": 3}, g.Strength())
}

func TestBuild_Empty(t *testing.T) {
	g := graph.Build(nil)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())

	dc, err := g.DegreeCentrality()
	assert.ErrorIs(t, err, apperr.ErrDegenerateGraph)
	require.NotNil(t, dc)
	assert.Empty(t, dc)
	assert.Equal(t, 0.0, g.Density())
	assert.Equal(t, 0, g.Components())
	assert.Empty(t, g.Betweenness(10, 1))
}

func TestParallelEdgesCountTowardsDegreeOnly(t *testing.T) {
	g := graph.Build([]herb.Relation{rel("A", "B", 1), rel("A", "B", 2), rel("B", "A", 4), rel("B", "C", 1)})
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 2, g.SimpleEdgeCount())
	assert.Equal(t, map[string]int{"A": 3, "B": 4, "C": 1}, g.Degree())
	// Density uses the simple projection, so it stays at or below 1.
	assert.InDelta(t, 2.0/3.0, g.Density(), 1e-12)

	dc, err := g.DegreeCentrality()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, dc["B"], 1e-12)
}

func TestBetweenness_ExactStar(t *testing.T) {
	g := graph.Build([]herb.Relation{
		rel("Hub", "A", 1), rel("Hub", "B", 1), rel("Hub", "C", 1), rel("Hub", "D", 1),
	})
	bc := g.Betweenness(0, 0)
	assert.InDelta(t, 1.0, bc["Hub"], 1e-12)
	for _, leaf := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, 0.0, bc[leaf])
	}
}

func TestBetweenness_PathMiddle(t *testing.T) {
	g := graph.Build([]herb.Relation{rel("A", "B", 5), rel("B", "C", 3)})
	bc := g.Betweenness(10, 42)
	assert.InDelta(t, 1.0, bc["B"], 1e-12)
	assert.Equal(t, 0.0, bc["A"])
}

func TestBetweenness_SampledIsReproducible(t *testing.T) {
	var rels []herb.Relation
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for i := 1; i < len(names); i++ {
		rels = append(rels, rel(names[i-1], names[i], i))
	}
	rels = append(rels, rel("a", "f", 2), rel("c", "k", 1))
	g := graph.Build(rels)

	first := g.Betweenness(4, 7)
	second := g.Betweenness(4, 7)
	assert.Equal(t, first, second)
	for _, v := range first {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestComponents(t *testing.T) {
	g := graph.Build([]herb.Relation{rel("A", "B", 1), rel("C", "D", 1), rel("E", "D", 1)})
	assert.Equal(t, 2, g.Components())
}

func TestSummarize(t *testing.T) {
	g := graph.Build([]herb.Relation{rel("A", "B", 5), rel("B", "C", 3)})
	s := graph.NewAnalyzer(graph.DefaultConfig()).Summarize(g)
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 2, s.Edges)
	assert.False(t, s.Degenerate)
	assert.False(t, s.Sampled)
	require.Len(t, s.Ranking, 3)
	assert.Equal(t, "B", s.Ranking[0].Herb)
	assert.Equal(t, "A", s.Ranking[1].Herb)
	assert.Equal(t, 8, s.Ranking[0].Strength)
}

func TestSummarize_DegenerateAndTruncated(t *testing.T) {
	a := graph.NewAnalyzer(graph.Config{BetweennessSamples: 2, Seed: 1, RankingSize: 1})

	s := a.Summarize(graph.Build(nil))
	assert.True(t, s.Degenerate)
	assert.Empty(t, s.Ranking)

	s = a.Summarize(graph.Build([]herb.Relation{rel("A", "B", 1), rel("B", "C", 1), rel("C", "D", 1)}))
	assert.True(t, s.Sampled)
	assert.Equal(t, 2, s.Samples)
	assert.Len(t, s.Ranking, 1)

	s = a.SummarizeTop(graph.Build([]herb.Relation{rel("A", "B", 1), rel("B", "C", 1)}), 0)
	assert.Len(t, s.Ranking, 3)
}
