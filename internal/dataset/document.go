package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
)

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension; anything that is not
// .json is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is the on-disk shape of a dataset before normalisation. Optional
// fields are pointers so that absent values can be told apart from zero.
type Document struct {
	Herbs     []RawHerb     `json:"herbs" yaml:"herbs"`
	Relations []RawRelation `json:"relations" yaml:"relations"`
}

// RawHerb is one herb row as written by a user.
type RawHerb struct {
	Name      string       `json:"name" yaml:"name"`
	Alias     string       `json:"alias,omitempty" yaml:"alias,omitempty"`
	Frequency *int         `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Category  string       `json:"category,omitempty" yaml:"category,omitempty"`
	Nature    string       `json:"nature,omitempty" yaml:"nature,omitempty"`
	Flavor    string       `json:"flavor,omitempty" yaml:"flavor,omitempty"`
	Meridian  string       `json:"meridian,omitempty" yaml:"meridian,omitempty"`
	Dose      *float64     `json:"dose,omitempty" yaml:"dose,omitempty"`
	Era       string       `json:"era,omitempty" yaml:"era,omitempty"`
	Molecular RawMolecular `json:"molecular,omitempty" yaml:"molecular,omitempty"`
}

// RawMolecular holds optional molecular descriptors.
type RawMolecular struct {
	Weight              *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	LogP                *float64 `json:"logp,omitempty" yaml:"logp,omitempty"`
	OralBioavailability *float64 `json:"ob,omitempty" yaml:"ob,omitempty"`
}

// RawRelation is one co-occurrence row. Endpoints may use names or aliases.
type RawRelation struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight *int   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: decode %s: %v", apperr.ErrInvalidDataset, f, err)
	}
	return doc, nil
}

// Parse decodes and normalises data into a dataset snapshot.
func Parse(data []byte, f Format) ([]herb.Record, []herb.Relation, error) {
	doc, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, nil, err
	}
	return Normalize(doc)
}

// Encode writes a dataset back out as a Document in format f.
func Encode(w io.Writer, ds *herb.Dataset, f Format) error {
	doc := toDocument(ds)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
}

func toDocument(ds *herb.Dataset) Document {
	doc := Document{
		Herbs:     make([]RawHerb, 0, ds.Len()),
		Relations: make([]RawRelation, 0, len(ds.Relations)),
	}
	for _, h := range ds.Herbs {
		freq, dose := h.Frequency, h.Dose
		mw, logp, ob := h.Molecular.Weight, h.Molecular.LogP, h.Molecular.OralBioavailability
		doc.Herbs = append(doc.Herbs, RawHerb{
			Name:      h.Name,
			Alias:     h.Alias,
			Frequency: &freq,
			Category:  string(h.Category),
			Nature:    string(h.Nature),
			Flavor:    string(h.Flavor),
			Meridian:  string(h.Meridian),
			Dose:      &dose,
			Era:       string(h.Era),
			Molecular: RawMolecular{Weight: &mw, LogP: &logp, OralBioavailability: &ob},
		})
	}
	for _, r := range ds.Relations {
		w := r.Weight
		doc.Relations = append(doc.Relations, RawRelation{Source: r.Source, Target: r.Target, Weight: &w})
	}
	return doc
}
