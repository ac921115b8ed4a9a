package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/herbscope/internal/graph"
	"github.com/starford/herbscope/internal/service"
	"github.com/starford/herbscope/internal/surface"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Dataset sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Dataset DatasetConfig     `yaml:"dataset"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Surface SurfaceConfig     `yaml:"surface"`
	Graph   GraphConfig       `yaml:"graph"`
	Events  EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Dataset.Validate(); err != nil {
		return err
	}
	if c.Dataset.Source == SourceSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("dataset: source is %q but sqlite.path is empty", SourceSQLite)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Surface.Validate(); err != nil {
		return err
	}
	if err := c.Graph.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatasetConfig selects where the live dataset comes from.
//
// Source is one of:
//   - "embedded" (default): the built-in dataset.
//   - "file": a YAML or JSON document at Path; Watch reloads it on change.
//   - "sqlite": the snapshot last imported into sqlite.path.
type DatasetConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the dataset configuration.
func (c *DatasetConfig) Validate() error {
	if c.Source == "" {
		c.Source = SourceEmbedded
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(SourceEmbedded, SourceFile, SourceSQLite)),
		validation.Field(&c.Path, validation.When(c.Source == SourceFile, validation.Required)),
		validation.Field(&c.Watch, validation.When(c.Source != SourceFile, validation.Empty.Error("watch needs source \"file\""))),
	)
}

// SQLiteConfig holds SQLite database configuration. An empty Path disables
// persistence of imported datasets.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// SurfaceConfig holds the default dose axis and the model coefficients.
type SurfaceConfig struct {
	AxisMin         float64 `yaml:"axis_min"`
	AxisMax         float64 `yaml:"axis_max"`
	Samples         int     `yaml:"samples"`
	SynergyK        float64 `yaml:"synergy_k"`
	AntagonismK     float64 `yaml:"antagonism_k"`
	AntagonismScale float64 `yaml:"antagonism_scale"`
}

// Validate validates the surface configuration.
func (c *SurfaceConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Samples, validation.Required, validation.Min(1), validation.Max(surface.MaxSamples)),
		validation.Field(&c.AntagonismScale, validation.Required),
		validation.Field(&c.AntagonismK, validation.Min(0.0)),
	); err != nil {
		return err
	}
	return c.Axis().Validate()
}

// Axis returns the configured default axis.
func (c *SurfaceConfig) Axis() surface.Axis {
	return surface.Axis{Min: c.AxisMin, Max: c.AxisMax, Samples: c.Samples}
}

// GraphConfig holds the network analysis parameters.
type GraphConfig struct {
	BetweennessSamples int    `yaml:"betweenness_samples"`
	Seed               uint64 `yaml:"seed"`
	RankingSize        int    `yaml:"ranking_size"`
}

// Validate validates the graph configuration.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BetweennessSamples, validation.Min(0)),
		validation.Field(&c.RankingSize, validation.Required, validation.Min(1)),
	)
}

// EventsConfig holds the SSE broker timings.
type EventsConfig struct {
	GraphThrottle time.Duration `yaml:"graph_throttle"`
	KeepAlive     time.Duration `yaml:"keep_alive"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.GraphThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.KeepAlive, validation.Min(time.Duration(0))),
	)
}

// ServiceConfig converts the engine sections into service parameters.
func (c *Config) ServiceConfig() service.Config {
	return service.Config{
		Coefficients: surface.Coefficients{
			SynergyK:        c.Surface.SynergyK,
			AntagonismK:     c.Surface.AntagonismK,
			AntagonismScale: c.Surface.AntagonismScale,
		},
		Axis: c.Surface.Axis(),
		Graph: graph.Config{
			BetweennessSamples: c.Graph.BetweennessSamples,
			Seed:               c.Graph.Seed,
			RankingSize:        c.Graph.RankingSize,
		},
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	coef := surface.DefaultCoefficients()
	axis := surface.DefaultAxis()
	g := graph.DefaultConfig()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Dataset: DatasetConfig{
			Source: SourceEmbedded,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Surface: SurfaceConfig{
			AxisMin:         axis.Min,
			AxisMax:         axis.Max,
			Samples:         axis.Samples,
			SynergyK:        coef.SynergyK,
			AntagonismK:     coef.AntagonismK,
			AntagonismScale: coef.AntagonismScale,
		},
		Graph: GraphConfig{
			BetweennessSamples: g.BetweennessSamples,
			Seed:               g.Seed,
			RankingSize:        g.RankingSize,
		},
		Events: EventsConfig{
			GraphThrottle: 2 * time.Second,
			KeepAlive:     15 * time.Second,
		},
	}
}
