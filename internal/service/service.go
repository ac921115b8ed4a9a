// Package service binds the engines to the live dataset snapshot. Every call
// reads the snapshot once and runs the pure engines on it, so concurrent
// requests never observe a half-applied reload.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/graph"
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/recommend"
	"github.com/starford/herbscope/internal/report"
	"github.com/starford/herbscope/internal/surface"
	"github.com/starford/herbscope/internal/textutil"
)

// Config carries the engine parameters.
type Config struct {
	Coefficients surface.Coefficients
	Axis         surface.Axis
	Graph        graph.Config
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		Coefficients: surface.DefaultCoefficients(),
		Axis:         surface.DefaultAxis(),
		Graph:        graph.DefaultConfig(),
	}
}

// Service coordinates the dataset store and the engines.
type Service struct {
	store     *dataset.Store
	surface   *surface.Engine
	recommend *recommend.Engine
	analyzer  *graph.Analyzer
	axis      surface.Axis
	now       func() time.Time
	persister Persister
	hook      dataset.EventCallback

	mu    sync.Mutex
	graph graphEntry
}

type graphEntry struct {
	ds *herb.Dataset
	g  *graph.Graph
}

// Persister stores an imported dataset. *catalog.DB implements it.
type Persister interface {
	Replace(ctx context.Context, ds *herb.Dataset, source string) error
}

// Option configures a Service.
type Option func(*Service)

// WithPersister makes Import write accepted datasets through p.
func WithPersister(p Persister) Option {
	return func(s *Service) { s.persister = p }
}

// WithReloadHook registers fn to be told about imports, with the same kinds
// the file watcher reports.
func WithReloadHook(fn dataset.EventCallback) Option {
	return func(s *Service) { s.hook = fn }
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a service over store.
func New(store *dataset.Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:     store,
		surface:   surface.New(cfg.Coefficients),
		recommend: recommend.New(),
		analyzer:  graph.NewAnalyzer(cfg.Graph),
		axis:      cfg.Axis,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the live dataset.
func (s *Service) Snapshot() *herb.Dataset {
	return s.store.Current()
}

// Info describes the live dataset.
type Info struct {
	Checksum  string    `json:"checksum"`
	Herbs     int       `json:"herbs"`
	Relations int       `json:"relations"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Info returns metadata about the live dataset.
func (s *Service) Info() Info {
	ds := s.Snapshot()
	if ds == nil {
		return Info{}
	}
	return Info{Checksum: ds.Checksum, Herbs: ds.Len(), Relations: len(ds.Relations), LoadedAt: ds.LoadedAt}
}

// Import validates a dataset document and makes it the live snapshot. With a
// persister configured it is stored first; a storage failure leaves the live
// snapshot untouched.
func (s *Service) Import(ctx context.Context, data []byte, format dataset.Format, source string) (Info, error) {
	ds, err := dataset.FromBytes(data, format)
	if err != nil {
		s.notify(dataset.EventFailed, err.Error())
		return Info{}, err
	}
	if s.persister != nil {
		if err := s.persister.Replace(ctx, ds, source); err != nil {
			return Info{}, fmt.Errorf("service: persist dataset: %w", err)
		}
	}
	s.store.Swap(ds)
	s.notify(dataset.EventReloaded, ds.Checksum)
	return s.Info(), nil
}

func (s *Service) notify(kind, detail string) {
	if s.hook != nil {
		s.hook(kind, detail)
	}
}

// Filter narrows ListHerbs. Empty fields match everything; values may be
// canonical tags in any case or spacing.
type Filter struct {
	Category string
	Nature   string
	Meridian string
	Limit    int
}

// ListHerbs returns matching records sorted by frequency (highest first,
// then by name) and the number of matches before Limit.
func (s *Service) ListHerbs(_ context.Context, f Filter) ([]herb.Record, int, error) {
	cat := herb.Category(textutil.Tag(f.Category))
	nat := herb.Nature(textutil.Tag(f.Nature))
	mer := herb.Meridian(textutil.Tag(f.Meridian))
	switch {
	case cat != "" && !cat.Valid():
		return nil, 0, fmt.Errorf("%w: category %q", apperr.ErrInvalidArgument, f.Category)
	case nat != "" && !nat.Valid():
		return nil, 0, fmt.Errorf("%w: nature %q", apperr.ErrInvalidArgument, f.Nature)
	case mer != "" && !mer.Valid():
		return nil, 0, fmt.Errorf("%w: meridian %q", apperr.ErrInvalidArgument, f.Meridian)
	case f.Limit < 0:
		return nil, 0, fmt.Errorf("%w: limit must be >= 0", apperr.ErrInvalidArgument)
	}

	ds := s.Snapshot()
	out := make([]herb.Record, 0, ds.Len())
	for _, h := range ds.Herbs {
		if (cat == "" || h.Category == cat) && (nat == "" || h.Nature == nat) && (mer == "" || h.Meridian == mer) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Name < out[j].Name
	})
	total := len(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// GetHerb resolves a name or alias.
func (s *Service) GetHerb(_ context.Context, id string) (herb.Record, error) {
	r, ok := s.Snapshot().Lookup(id)
	if !ok {
		return herb.Record{}, fmt.Errorf("%w: %q", apperr.ErrUnknownHerb, id)
	}
	return r, nil
}

// SurfaceRequest selects a herb pair, a model and optional axis overrides.
// Nil overrides fall back to the configured axis.
type SurfaceRequest struct {
	HerbA   string
	HerbB   string
	Model   string
	Min     *float64
	Max     *float64
	Samples *int
}

// Surface computes the interaction surface for req.
func (s *Service) Surface(_ context.Context, req SurfaceRequest) (*surface.Surface, error) {
	m, err := surface.ParseModel(req.Model)
	if err != nil {
		return nil, err
	}
	axis := s.axis
	if req.Min != nil {
		axis.Min = *req.Min
	}
	if req.Max != nil {
		axis.Max = *req.Max
	}
	if req.Samples != nil {
		axis.Samples = *req.Samples
	}
	return s.surface.Compute(s.Snapshot(), req.HerbA, req.HerbB, m, axis)
}

// Symptoms returns the observation vocabulary.
func (s *Service) Symptoms() []recommend.Term {
	return recommend.Vocabulary()
}

// Recommend parses the raw symptom tags and runs inference against the live
// dataset. An empty list is valid and yields the fallback formula.
func (s *Service) Recommend(_ context.Context, symptoms []string) (recommend.Result, error) {
	parsed, err := recommend.ParseSymptoms(symptoms)
	if err != nil {
		return recommend.Result{}, err
	}
	return s.recommend.Recommend(s.Snapshot(), parsed)
}

// Diagnose is Recommend collapsed to formula, composition and confidence.
func (s *Service) Diagnose(ctx context.Context, symptoms []string) (recommend.Diagnosis, error) {
	res, err := s.Recommend(ctx, symptoms)
	if err != nil {
		return recommend.Diagnosis{}, err
	}
	return res.Diagnosis(), nil
}

// GraphSummary summarises the relation graph of the live dataset. top <= 0
// uses the configured ranking size.
func (s *Service) GraphSummary(_ context.Context, top int) graph.Summary {
	g := s.relationGraph(s.Snapshot())
	if top <= 0 {
		return s.analyzer.Summarize(g)
	}
	return s.analyzer.SummarizeTop(g, top)
}

// relationGraph builds the graph once per snapshot.
func (s *Service) relationGraph(ds *herb.Dataset) *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph.g != nil && s.graph.ds == ds {
		return s.graph.g
	}
	g := graph.Build(ds.Relations)
	s.graph = graphEntry{ds: ds, g: g}
	return g
}

// Report generates the analysis report for the live dataset.
func (s *Service) Report(_ context.Context) (report.Report, error) {
	return report.Generate(s.Snapshot(), s.now())
}
