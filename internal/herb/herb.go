// Package herb defines the domain types shared by every engine: herb records,
// co-occurrence relations and the immutable dataset snapshot that holds them.
package herb

import (
	"time"

	"github.com/starford/herbscope/internal/textutil"
)

// Molecular holds the ADME-style descriptors of a record's main constituent.
type Molecular struct {
	Weight              float64 `json:"weight" yaml:"weight"`
	LogP                float64 `json:"logp" yaml:"logp"`
	OralBioavailability float64 `json:"ob" yaml:"ob"`
}

// Record describes one medicinal substance. Every categorical attribute
// carries exactly one value.
type Record struct {
	Name      string    `json:"name" yaml:"name"`
	Alias     string    `json:"alias,omitempty" yaml:"alias,omitempty"`
	Frequency int       `json:"frequency" yaml:"frequency"`
	Category  Category  `json:"category" yaml:"category"`
	Nature    Nature    `json:"nature" yaml:"nature"`
	Flavor    Flavor    `json:"flavor" yaml:"flavor"`
	Meridian  Meridian  `json:"meridian" yaml:"meridian"`
	Dose      float64   `json:"dose" yaml:"dose"`
	Era       Era       `json:"era" yaml:"era"`
	Molecular Molecular `json:"molecular" yaml:"molecular"`
}

// Relation is one co-occurrence event between two herbs. Repeated events
// between the same pair are kept as separate relations.
type Relation struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Catalog resolves herb identifiers. *Dataset implements it.
type Catalog interface {
	Lookup(id string) (Record, bool)
}

// Dataset is an immutable snapshot of records and relations. Build it with
// NewDataset and never mutate the slices afterwards.
type Dataset struct {
	Herbs     []Record
	Relations []Relation
	Checksum  string
	LoadedAt  time.Time

	index map[string]int
}

var _ Catalog = (*Dataset)(nil)

// NewDataset indexes records by name and alias. Later duplicates do not
// override earlier ones; the dataset validator rejects them before this point.
func NewDataset(herbs []Record, relations []Relation, checksum string, loadedAt time.Time) *Dataset {
	ds := &Dataset{
		Herbs:     herbs,
		Relations: relations,
		Checksum:  checksum,
		LoadedAt:  loadedAt,
		index:     make(map[string]int, 2*len(herbs)),
	}
	for i, h := range herbs {
		for _, id := range []string{h.Name, h.Alias} {
			k := textutil.Key(id)
			if k == "" {
				continue
			}
			if _, dup := ds.index[k]; !dup {
				ds.index[k] = i
			}
		}
	}
	return ds
}

// Lookup resolves a name or alias.
func (d *Dataset) Lookup(id string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	i, ok := d.index[textutil.Key(id)]
	if !ok {
		return Record{}, false
	}
	return d.Herbs[i], true
}

// Has reports whether id resolves to a record.
func (d *Dataset) Has(id string) bool {
	_, ok := d.Lookup(id)
	return ok
}

// Names returns record names in dataset order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Herbs))
	for i, h := range d.Herbs {
		out[i] = h.Name
	}
	return out
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Herbs)
}
