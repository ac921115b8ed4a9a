// Package graph summarises the herb co-occurrence multigraph: counts, density,
// degree and betweenness centrality, and connectivity.
package graph

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
)

// Edge is one undirected co-occurrence. Parallel edges are kept.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Graph is an undirected weighted multigraph over relation endpoints.
// It is immutable after Build.
type Graph struct {
	nodes    []string
	index    map[string]int
	edges    []Edge
	degree   []int
	strength []int
	adj      [][]int // simple projection, sorted and without duplicates
}

// Build constructs the multigraph. Nodes are the relation endpoints in
// lexical order. Relations are assumed to be free of self-loops.
func Build(relations []herb.Relation) *Graph {
	g := &Graph{index: make(map[string]int)}
	for _, r := range relations {
		g.addNode(r.Source)
		g.addNode(r.Target)
	}
	sort.Strings(g.nodes)
	for i, n := range g.nodes {
		g.index[n] = i
	}

	n := len(g.nodes)
	g.degree = make([]int, n)
	g.strength = make([]int, n)
	g.adj = make([][]int, n)
	linked := make(map[[2]int]struct{})
	for _, r := range relations {
		u, v := g.index[r.Source], g.index[r.Target]
		g.edges = append(g.edges, Edge{A: r.Source, B: r.Target, Weight: r.Weight})
		g.degree[u]++
		g.degree[v]++
		g.strength[u] += r.Weight
		g.strength[v] += r.Weight
		if u == v {
			continue
		}
		key := [2]int{min(u, v), max(u, v)}
		if _, ok := linked[key]; ok {
			continue
		}
		linked[key] = struct{}{}
		g.adj[u] = append(g.adj[u], v)
		g.adj[v] = append(g.adj[v], u)
	}
	for _, nb := range g.adj {
		sort.Ints(nb)
	}
	return g
}

func (g *Graph) addNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = -1
	g.nodes = append(g.nodes, id)
}

// Nodes returns node ids in lexical order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in relation order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of distinct endpoints.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of relations, parallel edges included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// SimpleEdgeCount returns the number of distinct unordered node pairs.
func (g *Graph) SimpleEdgeCount() int {
	m := 0
	for _, nb := range g.adj {
		m += len(nb)
	}
	return m / 2
}

// Density is 2m/(n(n-1)) over the simple projection; 0 when n <= 1.
func (g *Graph) Density() float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	return 2 * float64(g.SimpleEdgeCount()) / float64(n*(n-1))
}

// Degree returns the multigraph degree of every node.
func (g *Graph) Degree() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		out[n] = g.degree[i]
	}
	return out
}

// Strength returns the summed incident weight of every node.
func (g *Graph) Strength() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		out[n] = g.strength[i]
	}
	return out
}

// DegreeCentrality returns the multigraph degree divided by n-1. With one
// node or none it returns a zero-valued map and ErrDegenerateGraph; the map is
// always usable.
func (g *Graph) DegreeCentrality() (map[string]float64, error) {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	if n <= 1 {
		for _, id := range g.nodes {
			out[id] = 0
		}
		return out, fmt.Errorf("%w: %d node(s)", apperr.ErrDegenerateGraph, n)
	}
	for i, id := range g.nodes {
		out[id] = float64(g.degree[i]) / float64(n-1)
	}
	return out, nil
}

// Components counts connected components.
func (g *Graph) Components() int {
	seen := make([]bool, len(g.nodes))
	count := 0
	queue := make([]int, 0, len(g.nodes))
	for s := range g.nodes {
		if seen[s] {
			continue
		}
		count++
		seen[s] = true
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range g.adj[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
	}
	return count
}

// Betweenness estimates normalised betweenness centrality on the simple
// projection with Brandes' algorithm, accumulating from `samples` source
// nodes drawn by a PCG permutation seeded with seed. When samples <= 0 or
// samples >= n every node is a source and the result is exact.
//
// Sampled results are an estimator scaled by n/k. They are reproducible for a
// fixed (samples, seed) pair; across different seeds only the ranking is
// expected to be roughly stable, not the magnitudes.
func (g *Graph) Betweenness(samples int, seed uint64) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	for _, id := range g.nodes {
		out[id] = 0
	}
	if n <= 2 {
		return out
	}

	sources := make([]int, n)
	for i := range sources {
		sources[i] = i
	}
	k := n
	if samples > 0 && samples < n {
		k = samples
		r := rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
		sources = r.Perm(n)[:k]
	}

	bc := make([]float64, n)
	for _, s := range sources {
		g.accumulate(s, bc)
	}

	scale := 1 / float64((n-1)*(n-2))
	if k < n {
		scale *= float64(n) / float64(k)
	}
	for i, id := range g.nodes {
		out[id] = bc[i] * scale
	}
	return out
}

// accumulate runs one Brandes single-source pass from s and adds the
// dependencies into bc.
func (g *Graph) accumulate(s int, bc []float64) {
	n := len(g.nodes)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	for i := range dist {
		dist[i] = -1
	}
	sigma[s], dist[s] = 1, 0

	order := make([]int, 0, n)
	queue := []int{s}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range g.adj[u] {
			if dist[v] < 0 {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
			if dist[v] == dist[u]+1 {
				sigma[v] += sigma[u]
				preds[v] = append(preds[v], u)
			}
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		for _, v := range preds[w] {
			delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
		}
		if w != s {
			bc[w] += delta[w]
		}
	}
}
