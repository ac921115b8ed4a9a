// Package dataset turns user-supplied herb tables into immutable
// herb.Dataset snapshots: decoding, defaults, validation, the embedded
// default dataset, the live snapshot store and file hot-reload.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/starford/herbscope/internal/checksum"
	"github.com/starford/herbscope/internal/herb"
)

// Source produces dataset snapshots.
type Source interface {
	Load(ctx context.Context) (*herb.Dataset, error)
	String() string
}

//go:embed default.yaml
var defaultYAML []byte

// Embedded serves the built-in dataset.
type Embedded struct{}

// Load decodes the embedded document.
func (Embedded) Load(context.Context) (*herb.Dataset, error) {
	return FromBytes(defaultYAML, FormatYAML)
}

func (Embedded) String() string { return "embedded:default" }

// Default returns the built-in dataset. It panics if the embedded document
// is invalid, which the package tests rule out.
func Default() *herb.Dataset {
	ds, err := Embedded{}.Load(context.Background())
	if err != nil {
		panic(fmt.Sprintf("dataset: embedded default is invalid: %v", err))
	}
	return ds
}

// DefaultDocument returns the raw embedded document bytes.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// File reads a YAML or JSON document from disk.
type File struct {
	Path string
}

// Load reads, normalises and validates the file.
func (f File) Load(ctx context.Context) (*herb.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", f.Path, err)
	}
	return FromBytes(data, FormatFor(f.Path))
}

func (f File) String() string { return "file:" + f.Path }

// FromBytes parses data into a snapshot stamped with its checksum and the
// current time.
func FromBytes(data []byte, format Format) (*herb.Dataset, error) {
	records, relations, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return herb.NewDataset(records, relations, checksum.Sum(data), time.Now().UTC()), nil
}
