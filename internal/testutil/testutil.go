// Package testutil provides shared fixtures: datasets, stores and services
// wired the way the application wires them.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/service"
)

// Store returns a dataset store serving the embedded default dataset.
func Store(t *testing.T) *dataset.Store {
	t.Helper()
	return dataset.NewStore(dataset.Default())
}

// Service returns a service over the default dataset with default engine
// parameters.
func Service(t *testing.T) *service.Service {
	t.Helper()
	return service.New(Store(t), service.DefaultConfig())
}

// WriteDataset writes doc to name under a fresh temp dir and returns the path.
func WriteDataset(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// SmallDataset is a three-herb document with one path-shaped relation set.
const SmallDataset = `herbs:
  - {name: Quanxie, alias: 全蝎, frequency: 5}
  - {name: Wugong, alias: 蜈蚣, frequency: 3}
  - {name: Jiangcan, frequency: 2}
relations:
  - {source: Quanxie, target: Wugong, weight: 5}
  - {source: Wugong, target: Jiangcan, weight: 3}
`
