// Package termview renders engine results for the terminal.
package termview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/herbscope/internal/graph"
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/recommend"
	"github.com/starford/herbscope/internal/service"
	"github.com/starford/herbscope/internal/surface"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// shades maps a normalised response onto increasing ink density.
const shades = " .:-=+*#%@"

// Renderer writes styled blocks to w.
type Renderer struct {
	w io.Writer
}

// New returns a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) print(blocks ...string) error {
	_, err := io.WriteString(r.w, lipgloss.JoinVertical(lipgloss.Left, blocks...)+"\n")
	return err
}

// row pads each cell to its column width.
func row(widths []int, cells ...string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = lipgloss.NewStyle().Width(widths[i]).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// Herbs renders a herb listing.
func (r *Renderer) Herbs(herbs []herb.Record, total int) error {
	widths := []int{14, 8, 11, 20, 9, 9, 8}
	lines := []string{
		titleStyle.Render(row(widths, "NAME", "ALIAS", "FREQUENCY", "CATEGORY", "NATURE", "MERIDIAN", "DOSE")),
	}
	for _, h := range herbs {
		lines = append(lines, row(widths, h.Name, h.Alias, fmt.Sprint(h.Frequency),
			string(h.Category), string(h.Nature), string(h.Meridian), fmt.Sprintf("%gg", h.Dose)))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d of %d herbs", len(herbs), total)))
	return r.print(lines...)
}

// Recommendation renders an inference result with its reasoning trace.
func (r *Renderer) Recommendation(res recommend.Result) error {
	head := fmt.Sprintf("%s  %s", accentStyle.Render(res.Formula), mutedStyle.Render(fmt.Sprintf("confidence %.2f", res.Confidence)))

	herbs := make([]string, len(res.Herbs))
	for i, h := range res.Herbs {
		herbs[i] = fmt.Sprintf("%-12s %s", h.Herb, mutedStyle.Render("("+h.Rule+")"))
	}

	blocks := []string{head, boxStyle.Render(strings.Join(herbs, "\n")), titleStyle.Render("Reasoning")}
	for i, j := range res.Justifications {
		blocks = append(blocks, fmt.Sprintf("%d. %s", i+1, j))
	}
	for _, a := range res.Advice {
		blocks = append(blocks, warnStyle.Render("! "+a))
	}
	return r.print(blocks...)
}

// Surface renders the peak and range of s over a coarse shade map. The map
// puts the lowest herb-B dose on the bottom row.
func (r *Renderer) Surface(s *surface.Surface, maxCells int) error {
	peak := s.Peak()
	lo, hi := s.Range()
	blocks := []string{
		titleStyle.Render(fmt.Sprintf("%s x %s (%s)", s.HerbA, s.HerbB, s.Model)),
		mutedStyle.Render(fmt.Sprintf("factor %.4f  range [%.3f, %.3f]", s.Factor, lo, hi)),
		fmt.Sprintf("peak %s at %s=%.2fg %s=%.2fg", accentStyle.Render(fmt.Sprintf("%.3f", peak.Z)), s.HerbA, peak.X, s.HerbB, peak.Y),
		boxStyle.Render(ShadeMap(s, maxCells)),
	}
	return r.print(blocks...)
}

// ShadeMap draws s as rows of shade characters, downsampled to at most
// maxCells per side. maxCells <= 0 draws every sample.
func ShadeMap(s *surface.Surface, maxCells int) string {
	lo, hi := s.Range()
	rows, cols := len(s.Z), len(s.X)
	stepY, stepX := stride(rows, maxCells), stride(cols, maxCells)

	var lines []string
	for i := 0; i < rows; i += stepY {
		var b strings.Builder
		for j := 0; j < cols; j += stepX {
			b.WriteByte(shade(s.Z[i][j], lo, hi))
		}
		lines = append(lines, b.String())
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func stride(n, limit int) int {
	if limit <= 0 || n <= limit {
		return 1
	}
	return (n + limit - 1) / limit
}

func shade(z, lo, hi float64) byte {
	if hi <= lo {
		return shades[len(shades)/2]
	}
	i := int((z - lo) / (hi - lo) * float64(len(shades)-1))
	return shades[min(max(i, 0), len(shades)-1)]
}

// Graph renders a graph summary and its centrality ranking.
func (r *Renderer) Graph(sum graph.Summary) error {
	stats := fmt.Sprintf("nodes %d  edges %d (%d distinct pairs)  density %.4f  components %d",
		sum.Nodes, sum.Edges, sum.SimpleEdges, sum.Density, sum.Components)
	blocks := []string{titleStyle.Render("Co-occurrence network"), mutedStyle.Render(stats)}
	if sum.Degenerate {
		blocks = append(blocks, warnStyle.Render("graph has fewer than two nodes; centralities are zero"))
	}
	if sum.Sampled {
		blocks = append(blocks, mutedStyle.Render(fmt.Sprintf("betweenness sampled from %d sources", sum.Samples)))
	}

	widths := []int{5, 14, 8, 10, 13, 9}
	blocks = append(blocks, titleStyle.Render(row(widths, "#", "HERB", "DEGREE", "CENTRAL", "BETWEENNESS", "STRENGTH")))
	for i, n := range sum.Ranking {
		blocks = append(blocks, row(widths, fmt.Sprint(i+1), n.Herb, fmt.Sprint(n.Degree),
			fmt.Sprintf("%.4f", n.DegreeCentrality), fmt.Sprintf("%.4f", n.Betweenness), fmt.Sprint(n.Strength)))
	}
	return r.print(blocks...)
}

// Info renders dataset metadata.
func (r *Renderer) Info(info service.Info) error {
	return r.print(
		titleStyle.Render("Dataset"),
		fmt.Sprintf("checksum  %s", info.Checksum),
		fmt.Sprintf("herbs     %d", info.Herbs),
		fmt.Sprintf("relations %d", info.Relations),
		mutedStyle.Render("loaded "+info.LoadedAt.Format("2006-01-02 15:04:05 MST")),
	)
}
