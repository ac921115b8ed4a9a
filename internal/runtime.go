package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/catalog"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/service"
)

// Runtime holds the components shared by every entry point: the live
// dataset store, the service over it and the optional SQLite catalog.
type Runtime struct {
	Store   *dataset.Store
	Service *service.Service
	Catalog *catalog.DB
	Source  dataset.Source
}

// Open loads the configured dataset and wires the service. With sqlite.path
// set, imports are persisted to the catalog; an empty catalog used as the
// source is seeded with the embedded dataset.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...service.Option) (*Runtime, error) {
	rt := &Runtime{}

	if cfg.SQLite.Path != "" {
		db, err := catalog.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init catalog: %w", err)
		}
		rt.Catalog = db
		opts = append([]service.Option{service.WithPersister(db)}, opts...)
	}

	switch cfg.Dataset.Source {
	case SourceFile:
		rt.Source = dataset.File{Path: cfg.Dataset.Path}
	case SourceSQLite:
		if rt.Catalog == nil {
			return nil, fmt.Errorf("dataset source %q needs sqlite.path", SourceSQLite)
		}
		rt.Source = rt.Catalog
	default:
		rt.Source = dataset.Embedded{}
	}

	ds, err := rt.Source.Load(ctx)
	if errors.Is(err, apperr.ErrEmptyDataset) && rt.Catalog != nil {
		logger.Info("catalog is empty, seeding with the embedded dataset", slog.String("sqlite_path", cfg.SQLite.Path))
		ds = dataset.Default()
		err = rt.Catalog.Replace(ctx, ds, dataset.Embedded{}.String())
	}
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load dataset from %s: %w", rt.Source, err)
	}

	logger.Info("Dataset loaded",
		slog.String("source", rt.Source.String()),
		slog.String("checksum", ds.Checksum),
		slog.Int("herbs", ds.Len()),
		slog.Int("relations", len(ds.Relations)))

	rt.Store = dataset.NewStore(ds)
	rt.Service = service.New(rt.Store, cfg.ServiceConfig(), opts...)
	return rt, nil
}

// Close releases the catalog connection, if any.
func (rt *Runtime) Close() error {
	if rt.Catalog == nil {
		return nil
	}
	return rt.Catalog.Close()
}
