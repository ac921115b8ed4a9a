package dataset

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/textutil"
)

// Fill values for columns a source leaves out.
const (
	DefaultDose      = 10.0
	DefaultWeight    = 300.0
	DefaultLogP      = 2.5
	DefaultOB        = 50.0
	DefaultCategory  = herb.CategoryUnknown
	DefaultNature    = herb.NatureNeutral
	DefaultFlavor    = herb.FlavorSweet
	DefaultMeridian  = herb.MeridianLiver
	DefaultEra       = herb.EraContemporary
	DefaultRelWeight = 1
)

// Normalize fills defaults, maps local labels onto the canonical enums and
// validates the result. Relation endpoints are rewritten to canonical herb
// names. Every failure wraps apperr.ErrInvalidDataset.
func Normalize(doc Document) ([]herb.Record, []herb.Relation, error) {
	records := make([]herb.Record, 0, len(doc.Herbs))
	ids := make(map[string]string, 2*len(doc.Herbs))

	for i, raw := range doc.Herbs {
		rec, err := normalizeHerb(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: herb #%d (%s): %v", apperr.ErrInvalidDataset, i+1, raw.Name, err)
		}
		for _, id := range []string{rec.Name, rec.Alias} {
			k := textutil.Key(id)
			if k == "" {
				continue
			}
			if prev, dup := ids[k]; dup {
				return nil, nil, fmt.Errorf("%w: herb #%d: identifier %q already used by %q", apperr.ErrInvalidDataset, i+1, id, prev)
			}
			ids[k] = rec.Name
		}
		records = append(records, rec)
	}

	relations := make([]herb.Relation, 0, len(doc.Relations))
	for i, raw := range doc.Relations {
		src, ok := ids[textutil.Key(raw.Source)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: relation #%d: unknown source %q", apperr.ErrInvalidDataset, i+1, raw.Source)
		}
		dst, ok := ids[textutil.Key(raw.Target)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: relation #%d: unknown target %q", apperr.ErrInvalidDataset, i+1, raw.Target)
		}
		if src == dst {
			return nil, nil, fmt.Errorf("%w: relation #%d: self-loop on %q", apperr.ErrInvalidDataset, i+1, src)
		}
		rel := herb.Relation{Source: src, Target: dst, Weight: DefaultRelWeight}
		if raw.Weight != nil {
			rel.Weight = *raw.Weight
		}
		if err := validation.Validate(rel.Weight, validation.Required, validation.Min(1)); err != nil {
			return nil, nil, fmt.Errorf("%w: relation #%d: weight %v", apperr.ErrInvalidDataset, i+1, err)
		}
		relations = append(relations, rel)
	}
	return records, relations, nil
}

func normalizeHerb(raw RawHerb) (herb.Record, error) {
	rec := herb.Record{
		Name:     textutil.Normalize(raw.Name),
		Alias:    textutil.Normalize(raw.Alias),
		Category: orDefault(label(raw.Category, categoryLabels), DefaultCategory),
		Nature:   orDefault(label(raw.Nature, natureLabels), DefaultNature),
		Flavor:   orDefault(label(raw.Flavor, flavorLabels), DefaultFlavor),
		Meridian: orDefault(label(raw.Meridian, meridianLabels), DefaultMeridian),
		Era:      orDefault(label(raw.Era, eraLabels), DefaultEra),
		Dose:     deref(raw.Dose, DefaultDose),
		Molecular: herb.Molecular{
			Weight:              deref(raw.Molecular.Weight, DefaultWeight),
			LogP:                deref(raw.Molecular.LogP, DefaultLogP),
			OralBioavailability: deref(raw.Molecular.OralBioavailability, DefaultOB),
		},
	}
	if raw.Frequency == nil {
		return rec, fmt.Errorf("frequency: cannot be blank")
	}
	rec.Frequency = *raw.Frequency
	return rec, validateRecord(&rec)
}

func validateRecord(r *herb.Record) error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Frequency, validation.Min(0)),
		validation.Field(&r.Category, validation.Required, oneOf(herb.AllCategories())),
		validation.Field(&r.Nature, validation.Required, oneOf(herb.AllNatures())),
		validation.Field(&r.Flavor, validation.Required, oneOf(herb.AllFlavors())),
		validation.Field(&r.Meridian, validation.Required, oneOf(herb.AllMeridians())),
		validation.Field(&r.Era, validation.Required, oneOf(herb.AllEras())),
		validation.Field(&r.Dose, validation.Required, validation.Min(0.0).Exclusive()),
	); err != nil {
		return err
	}
	m := &r.Molecular
	return validation.ValidateStruct(m,
		validation.Field(&m.Weight, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&m.LogP, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&m.OralBioavailability, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(100.0)),
	)
}

func oneOf[T ~string](all []T) validation.Rule {
	vals := make([]interface{}, len(all))
	for i, v := range all {
		vals[i] = v
	}
	return validation.In(vals...).Error("is not a supported value")
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
