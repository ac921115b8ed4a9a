package recommend

import (
	"fmt"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/textutil"
)

// Symptom is a tag from the fixed observation vocabulary.
type Symptom string

const (
	CloudedConsciousness     Symptom = "clouded-consciousness"
	FoamingAtMouth           Symptom = "foaming-at-mouth"
	PhlegmRale               Symptom = "phlegm-rale"
	LimbConvulsion           Symptom = "limb-convulsion"
	Opisthotonos             Symptom = "opisthotonos"
	GreasyWhiteTongueCoating Symptom = "greasy-white-tongue-coating"
	WirySlipperyPulse        Symptom = "wiry-slippery-pulse"
	DullComplexion           Symptom = "dull-complexion"
	TraumaHeadache           Symptom = "trauma-headache"
)

// Term is one vocabulary entry.
type Term struct {
	Tag   Symptom `json:"tag"`
	Alias string  `json:"alias"`
	Label string  `json:"label"`
}

var vocabulary = []Term{
	{CloudedConsciousness, "神志不清", "Clouded consciousness"},
	{FoamingAtMouth, "口吐白沫", "Foaming at the mouth"},
	{PhlegmRale, "喉间痰鸣", "Phlegm rale in the throat"},
	{LimbConvulsion, "四肢抽搐", "Convulsion of the limbs"},
	{Opisthotonos, "角弓反张", "Opisthotonos"},
	{GreasyWhiteTongueCoating, "舌苔白腻", "Greasy white tongue coating"},
	{WirySlipperyPulse, "脉弦滑", "Wiry slippery pulse"},
	{DullComplexion, "面色晦暗", "Dull complexion"},
	{TraumaHeadache, "头痛跌仆", "Headache after trauma"},
}

var lookup = func() map[string]Symptom {
	m := make(map[string]Symptom, 2*len(vocabulary))
	for _, t := range vocabulary {
		m[string(t.Tag)] = t.Tag
		m[textutil.Key(t.Alias)] = t.Tag
	}
	return m
}()

// Vocabulary returns the supported symptoms in display order.
func Vocabulary() []Term {
	out := make([]Term, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// ParseSymptom resolves a tag or its local-script alias.
func ParseSymptom(raw string) (Symptom, error) {
	if s, ok := lookup[textutil.Tag(raw)]; ok {
		return s, nil
	}
	if s, ok := lookup[textutil.Key(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownSymptom, raw)
}

// ParseSymptoms resolves every entry and drops duplicates, keeping first-seen
// order. Blank entries are ignored; an empty result is valid.
func ParseSymptoms(raw []string) ([]Symptom, error) {
	out := make([]Symptom, 0, len(raw))
	seen := make(map[Symptom]struct{}, len(raw))
	for _, r := range raw {
		if textutil.Key(r) == "" {
			continue
		}
		s, err := ParseSymptom(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
