// Package report summarises a dataset snapshot into the analysis report:
// headline herb, dominant category, modal properties, lipophilicity and the
// blood-brain-barrier window.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/checksum"
	"github.com/starford/herbscope/internal/herb"
)

// BBB window bounds for a single compound and the mean-LogP rating.
const (
	BBBMinWeight = 200.0
	BBBMaxWeight = 400.0
	BBBMinLogP   = 2.0
	BBBMaxLogP   = 4.0
)

// Ratings of the mean-LogP blood-brain-barrier assessment.
const (
	RatingExcellent = "excellent"
	RatingModerate  = "moderate"
)

// HerbCount pairs a herb with its frequency.
type HerbCount struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

// Share is a category's head count and percentage of all herbs.
type Share struct {
	Category herb.Category `json:"category"`
	Count    int           `json:"count"`
	Percent  float64       `json:"percent"`
}

// MeridianLoad is the summed frequency of the herbs entering one meridian.
type MeridianLoad struct {
	Meridian  herb.Meridian `json:"meridian"`
	Frequency int           `json:"frequency"`
}

// EraLoad is the summed frequency per category for one era.
type EraLoad struct {
	Era        herb.Era              `json:"era"`
	Categories map[herb.Category]int `json:"categories"`
	Total      int                   `json:"total"`
}

// Report is the computed analysis. It carries no state beyond its inputs.
type Report struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	Checksum      string         `json:"checksum"`
	TotalHerbs    int            `json:"total_herbs"`
	TopHerb       HerbCount      `json:"top_herb"`
	Dominant      Share          `json:"dominant_category"`
	Nature        herb.Nature    `json:"nature"`
	Flavor        herb.Flavor    `json:"flavor"`
	Meridian      herb.Meridian  `json:"meridian"`
	MeanLogP      float64        `json:"mean_logp"`
	BBBRating     string         `json:"bbb_rating"`
	BBBCandidates []string       `json:"bbb_candidates"`
	Meridians     []MeridianLoad `json:"meridians"`
	Timeline      []EraLoad      `json:"timeline"`
}

// Generate builds the report for ds, stamped with now.
func Generate(ds *herb.Dataset, now time.Time) (Report, error) {
	if ds.Len() == 0 {
		return Report{}, fmt.Errorf("report: %w", apperr.ErrEmptyDataset)
	}
	herbs := ds.Herbs
	r := Report{
		GeneratedAt: now,
		Checksum:    checksum.Short(ds.Checksum),
		TotalHerbs:  len(herbs),
	}

	top := herbs[0]
	for _, h := range herbs[1:] {
		if h.Frequency > top.Frequency {
			top = h
		}
	}
	r.TopHerb = HerbCount{Name: top.Name, Frequency: top.Frequency}

	cat, n := mode(herbs, herb.AllCategories(), func(h herb.Record) herb.Category { return h.Category })
	r.Dominant = Share{Category: cat, Count: n, Percent: round(100*float64(n)/float64(len(herbs)), 1)}
	r.Nature, _ = mode(herbs, herb.AllNatures(), func(h herb.Record) herb.Nature { return h.Nature })
	r.Flavor, _ = mode(herbs, herb.AllFlavors(), func(h herb.Record) herb.Flavor { return h.Flavor })
	r.Meridian, _ = mode(herbs, herb.AllMeridians(), func(h herb.Record) herb.Meridian { return h.Meridian })

	var sum float64
	for _, h := range herbs {
		sum += h.Molecular.LogP
		if InBBBWindow(h.Molecular) {
			r.BBBCandidates = append(r.BBBCandidates, h.Name)
		}
	}
	r.MeanLogP = round(sum/float64(len(herbs)), 2)
	r.BBBRating = RatingModerate
	if r.MeanLogP >= BBBMinLogP && r.MeanLogP <= BBBMaxLogP {
		r.BBBRating = RatingExcellent
	}

	r.Meridians = meridianLoads(herbs)
	r.Timeline = timeline(herbs)
	return r, nil
}

// InBBBWindow reports whether a compound sits in the MW 200-400, LogP 2-4 box.
func InBBBWindow(m herb.Molecular) bool {
	return m.Weight >= BBBMinWeight && m.Weight <= BBBMaxWeight &&
		m.LogP >= BBBMinLogP && m.LogP <= BBBMaxLogP
}

// mode returns the most common value and its count. Ties go to the value
// listed first in order.
func mode[T comparable](herbs []herb.Record, order []T, key func(herb.Record) T) (T, int) {
	counts := make(map[T]int, len(order))
	for _, h := range herbs {
		counts[key(h)]++
	}
	var best T
	bestN := 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, bestN
}

func meridianLoads(herbs []herb.Record) []MeridianLoad {
	sums := make(map[herb.Meridian]int)
	for _, h := range herbs {
		sums[h.Meridian] += h.Frequency
	}
	out := make([]MeridianLoad, 0, len(sums))
	for _, m := range herb.AllMeridians() {
		out = append(out, MeridianLoad{Meridian: m, Frequency: sums[m]})
	}
	return out
}

// timeline lists eras oldest first, skipping eras with no herbs.
func timeline(herbs []herb.Record) []EraLoad {
	byEra := make(map[herb.Era]*EraLoad)
	for _, h := range herbs {
		e, ok := byEra[h.Era]
		if !ok {
			e = &EraLoad{Era: h.Era, Categories: make(map[herb.Category]int)}
			byEra[h.Era] = e
		}
		e.Categories[h.Category] += h.Frequency
		e.Total += h.Frequency
	}
	var out []EraLoad
	for _, era := range herb.AllEras() {
		if e, ok := byEra[era]; ok {
			out = append(out, *e)
		}
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
