package report

import (
	"fmt"
	"strings"

	"github.com/starford/herbscope/internal/herb"
)

// Markdown renders the report as a Markdown document.
func (r Report) Markdown() string {
	var b strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&b, format, args...) }

	w("### Prescription pattern analysis\n\n")

	w("**1. Dataset overview**\n\n")
	w("The dataset covers **%d** herbs. **%s** is the most frequently used (frequency %d), ", r.TotalHerbs, r.TopHerb.Name, r.TopHerb.Frequency)
	w("which marks it as the sovereign herb of the prescriptions.\n\n")

	w("**2. Pattern and treatment**\n\n")
	w("The **%s** category dominates with **%.1f%%** of herbs (%d of %d), ", r.Dominant.Category, r.Dominant.Percent, r.Dominant.Count, r.TotalHerbs)
	w("pointing to treatment built around that method.\n\n")

	w("**3. Nature, flavor and meridian**\n\n")
	w("- Nature and flavor: mainly **%s** in nature and **%s** in flavor.\n", r.Nature, r.Flavor)
	w("- Meridian: herbs mostly enter the **%s** meridian.\n\n", r.Meridian)

	w("**4. Chemical space**\n\n")
	w("Mean lipophilicity (LogP) is **%.2f**; blood-brain-barrier penetration is rated **%s**.\n", r.MeanLogP, r.BBBRating)
	if len(r.BBBCandidates) > 0 {
		w("Herbs inside the MW %.0f-%.0f / LogP %.0f-%.0f window: %s.\n", BBBMinWeight, BBBMaxWeight, BBBMinLogP, BBBMaxLogP, strings.Join(r.BBBCandidates, ", "))
	}
	w("\n")

	w("**5. Meridian load**\n\n")
	w("| Meridian | Frequency |\n|---|---|\n")
	for _, m := range r.Meridians {
		w("| %s | %d |\n", m.Meridian, m.Frequency)
	}
	w("\n")

	if len(r.Timeline) > 0 {
		w("**6. Historical evolution**\n\n")
		w("| Era | Total | Leading category |\n|---|---|---|\n")
		for _, e := range r.Timeline {
			w("| %s | %d | %s |\n", e.Era, e.Total, leading(e.Categories))
		}
		w("\n")
	}

	w("**Conclusion**\n\n")
	w("The prescriptions centre on **%s**, combining the **%s** method with **%s/%s** herbs acting through the **%s** meridian.\n\n",
		r.TopHerb.Name, r.Dominant.Category, r.Nature, r.Flavor, r.Meridian)
	w("---\n*Generated %s (dataset %s)*\n", r.GeneratedAt.Format("2006-01-02 15:04"), r.Checksum)
	return b.String()
}

func leading(cats map[herb.Category]int) herb.Category {
	var best herb.Category
	n := -1
	for _, c := range herb.AllCategories() {
		if v, ok := cats[c]; ok && v > n {
			best, n = c, v
		}
	}
	return best
}
