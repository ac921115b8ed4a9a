package recommend

// Rule maps a trigger set to a herb contribution. A rule with Fallback set
// has no triggers and fires only when no other rule fired.
type Rule struct {
	ID            string
	Pattern       string
	Triggers      []Symptom
	Herbs         []string
	Formula       string
	Confidence    float64
	Justification string
	Advice        []string
	Fallback      bool
}

// DefaultRules returns the built-in rule table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:            "phlegm-turbidity",
			Pattern:       "Phlegm turbidity obstructing the orifices",
			Triggers:      []Symptom{PhlegmRale, GreasyWhiteTongueCoating, CloudedConsciousness},
			Herbs:         []string{"Shichangpu", "Dannanxing", "Yujin"},
			Formula:       "Dingxian Wan (modified)",
			Confidence:    0.92,
			Justification: "open the orifices and resolve phlegm",
		},
		{
			ID:            "internal-wind",
			Pattern:       "Internal wind stirring",
			Triggers:      []Symptom{LimbConvulsion, Opisthotonos},
			Herbs:         []string{"Quanxie", "Wugong", "Jiangcan"},
			Formula:       "Zhijing San",
			Confidence:    0.88,
			Justification: "extinguish wind and stop spasm with insect-derived herbs",
			Advice: []string{
				"Quanxie and Wugong are toxic: start at the low end of the dose range and avoid long courses.",
			},
		},
		{
			ID:            "blood-stasis",
			Pattern:       "Blood stasis obstructing the collaterals",
			Triggers:      []Symptom{DullComplexion, TraumaHeadache},
			Herbs:         []string{"Chuanxiong", "Danshen", "Chishao"},
			Formula:       "Tongqiao Huoxue Tang",
			Confidence:    0.85,
			Justification: "activate blood and unblock the collaterals",
			Advice: []string{
				"Blood-activating herbs are contraindicated in pregnancy and with anticoagulants.",
			},
		},
		FallbackRule(),
	}
}

// FallbackRule is the wind-calming base rule fired when nothing else matches.
func FallbackRule() Rule {
	return Rule{
		ID:            "fallback-wind-calming",
		Pattern:       "No specific pattern identified",
		Herbs:         []string{"Tianma", "Gouteng"},
		Formula:       "Tianma Gouteng base formula",
		Confidence:    0.5,
		Justification: "calm the liver and extinguish wind as a broad-spectrum base",
		Fallback:      true,
	}
}

func hasFallback(rules []Rule) bool {
	for _, r := range rules {
		if r.Fallback && len(r.Herbs) > 0 {
			return true
		}
	}
	return false
}

// matched returns the triggers present in set, in rule order.
func (r Rule) matched(set map[Symptom]struct{}) []Symptom {
	var out []Symptom
	for _, t := range r.Triggers {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
