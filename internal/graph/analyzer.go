package graph

import (
	"errors"
	"sort"

	"github.com/starford/herbscope/internal/apperr"
)

// Config controls the sampled metrics and the ranking table.
type Config struct {
	BetweennessSamples int
	Seed               uint64
	RankingSize        int
}

// DefaultConfig samples 10 betweenness sources with seed 42 and ranks the
// top 10 nodes.
func DefaultConfig() Config {
	return Config{BetweennessSamples: 10, Seed: 42, RankingSize: 10}
}

// NodeScore is one row of the centrality ranking.
type NodeScore struct {
	Herb             string  `json:"herb"`
	Degree           int     `json:"degree"`
	DegreeCentrality float64 `json:"degree_centrality"`
	Betweenness      float64 `json:"betweenness"`
	Strength         int     `json:"strength"`
}

// Summary holds the scalar topology metrics and the ranking table.
type Summary struct {
	Nodes       int         `json:"nodes"`
	Edges       int         `json:"edges"`
	SimpleEdges int         `json:"simple_edges"`
	Density     float64     `json:"density"`
	Components  int         `json:"components"`
	Degenerate  bool        `json:"degenerate"`
	Sampled     bool        `json:"betweenness_sampled"`
	Samples     int         `json:"betweenness_samples"`
	Ranking     []NodeScore `json:"ranking"`
}

// Analyzer produces summaries with a fixed configuration.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer returns an Analyzer using cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Summarize computes every metric for g. A degenerate graph is reported
// through Summary.Degenerate rather than an error.
func (a *Analyzer) Summarize(g *Graph) Summary {
	return a.SummarizeTop(g, a.cfg.RankingSize)
}

// SummarizeTop is Summarize with an explicit ranking size; top <= 0 keeps
// every node.
func (a *Analyzer) SummarizeTop(g *Graph, top int) Summary {
	n := g.NodeCount()
	dc, err := g.DegreeCentrality()
	s := Summary{
		Nodes:       n,
		Edges:       g.EdgeCount(),
		SimpleEdges: g.SimpleEdgeCount(),
		Density:     g.Density(),
		Components:  g.Components(),
		Degenerate:  errors.Is(err, apperr.ErrDegenerateGraph),
		Sampled:     a.cfg.BetweennessSamples > 0 && a.cfg.BetweennessSamples < n,
		Samples:     n,
	}
	if s.Sampled {
		s.Samples = a.cfg.BetweennessSamples
	}

	bc := g.Betweenness(a.cfg.BetweennessSamples, a.cfg.Seed)
	deg := g.Degree()
	str := g.Strength()
	rows := make([]NodeScore, 0, n)
	for _, id := range g.Nodes() {
		rows = append(rows, NodeScore{
			Herb:             id,
			Degree:           deg[id],
			DegreeCentrality: dc[id],
			Betweenness:      bc[id],
			Strength:         str[id],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DegreeCentrality != rows[j].DegreeCentrality {
			return rows[i].DegreeCentrality > rows[j].DegreeCentrality
		}
		if rows[i].Betweenness != rows[j].Betweenness {
			return rows[i].Betweenness > rows[j].Betweenness
		}
		return rows[i].Herb < rows[j].Herb
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	s.Ranking = rows
	return s
}
