// Package config loads and persists the application settings, including the
// tunable scoring weights consumed by the recommendation engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Distance conversion curve names for Settings.Scoring.DistanceConversion.
const (
	ConversionLinear        = "linear"
	ConversionSqrt          = "sqrt"
	ConversionExponential   = "exponential"
	ConversionAggressiveExp = "aggressive_exp"
)

// Blend strategy names for Settings.Scoring.Strategy.
const (
	StrategyPrimaryFallback = "primary_fallback"
	StrategyWeightedAverage = "weighted_average"
	StrategyMaximum         = "maximum"
	StrategyProduct         = "product"
	StrategySum             = "sum"
	StrategySemanticOnly    = "semantic_only"
	StrategyKeywordOnly     = "keyword_only"
)

// Settings represents the application configuration.
type Settings struct {
	// Scoring weights and strategy knobs
	Scoring ScoringSettings `toml:"scoring"`

	// Mana curve targets
	Curve CurveSettings `toml:"curve"`

	// Functional quotas for deck construction
	Quotas QuotaSettings `toml:"quotas"`

	// Search backend configuration
	Search SearchSettings `toml:"search"`

	// Database configuration
	Database DatabaseSettings `toml:"database"`

	// API server configuration
	API APISettings `toml:"api"`

	// Application configuration
	App AppSettings `toml:"app"`
}

// ScoringSettings contains the weights used by the synergy scorers.
type ScoringSettings struct {
	BaseBoost          float64 `toml:"base_boost"`          // Score floor for every candidate
	DistanceConversion string  `toml:"distance_conversion"` // linear, sqrt, exponential, aggressive_exp
	SemanticWeight     float64 `toml:"semantic_weight"`     // Primary strategy weight
	KeywordWeight      float64 `toml:"keyword_weight"`      // Fallback strategy weight
	SemanticEpsilon    float64 `toml:"semantic_epsilon"`    // Below this, semantic score counts as absent
	Strategy           string  `toml:"strategy"`            // Blend strategy name
	ThemeMultiplier    float64 `toml:"theme_multiplier"`    // Per matched theme
	ThemeCap           float64 `toml:"theme_cap"`           // Max total theme bonus
	CurveMultiplier    float64 `toml:"curve_multiplier"`    // Scales curve deficit bonus
	CurveMinGap        float64 `toml:"curve_min_gap"`       // Minimum deficit that earns a bonus
	TribalBonus        float64 `toml:"tribal_bonus"`
	KeywordBonus       float64 `toml:"keyword_bonus"`     // Per shared keyword tag
	InteractionBonus   float64 `toml:"interaction_bonus"` // Per keyword interaction pair
	MultiplayerBonus   float64 `toml:"multiplayer_bonus"` // Commander-format multiplayer text
	LegendaryBonus     float64 `toml:"legendary_bonus"`   // Commander-format legendary permanents
	DrawBonus          float64 `toml:"draw_bonus"`
	RemovalBonus       float64 `toml:"removal_bonus"`
	TutorBonus         float64 `toml:"tutor_bonus"`
}

// CurveSettings contains the ideal mana curve distribution. Fractions are
// keyed by mana value bucket and should sum to 1.
type CurveSettings struct {
	Ideal map[string]float64 `toml:"ideal"` // "0".."6", "7+"
}

// QuotaSettings contains base functional quotas for a 99-card deck before
// commander-driven adjustments.
type QuotaSettings struct {
	Lands   int `toml:"lands"`
	Ramp    int `toml:"ramp"`
	Draw    int `toml:"draw"`
	Removal int `toml:"removal"`
}

// SearchSettings contains semantic search backend settings.
type SearchSettings struct {
	BaseURL    string  `toml:"base_url"`    // Search service endpoint
	Limit      int     `toml:"limit"`       // Max results per query
	Timeout    string  `toml:"timeout"`     // Request timeout (e.g., "10s")
	RateLimit  float64 `toml:"rate_limit"`  // Requests per second
	CacheTTL   string  `toml:"cache_ttl"`   // Result cache TTL
	CacheSize  int     `toml:"cache_size"`  // Max cached queries (0 = unlimited)
	MaxRetries int     `toml:"max_retries"` // Retry attempts on transient failure
}

// DatabaseSettings contains card corpus database settings.
type DatabaseSettings struct {
	Path string `toml:"path"` // Path to cards.db
}

// APISettings contains HTTP server settings.
type APISettings struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// AppSettings contains general application settings.
type AppSettings struct {
	DebugMode   bool `toml:"debug_mode"`   // Enable debug logging
	BuildTrials int  `toml:"build_trials"` // Randomized deck build attempts
}

// DefaultSettings returns the default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Scoring: ScoringSettings{
			BaseBoost:          1.0,
			DistanceConversion: ConversionLinear,
			SemanticWeight:     0.7,
			KeywordWeight:      0.3,
			SemanticEpsilon:    0.01,
			Strategy:           StrategyPrimaryFallback,
			ThemeMultiplier:    0.3,
			ThemeCap:           0.6,
			CurveMultiplier:    2.0,
			CurveMinGap:        0.05,
			TribalBonus:        0.5,
			KeywordBonus:       0.1,
			InteractionBonus:   0.15,
			MultiplayerBonus:   0.2,
			LegendaryBonus:     0.1,
			DrawBonus:          0.25,
			RemovalBonus:       0.25,
			TutorBonus:         0.2,
		},
		Curve: CurveSettings{
			Ideal: map[string]float64{
				"0":  0.05,
				"1":  0.15,
				"2":  0.20,
				"3":  0.20,
				"4":  0.15,
				"5":  0.10,
				"6":  0.08,
				"7+": 0.07,
			},
		},
		Quotas: QuotaSettings{
			Lands:   38,
			Ramp:    10,
			Draw:    8,
			Removal: 8,
		},
		Search: SearchSettings{
			BaseURL:    "http://localhost:8815",
			Limit:      60,
			Timeout:    "10s",
			RateLimit:  5,
			CacheTTL:   "15m",
			CacheSize:  256,
			MaxRetries: 2,
		},
		Database: DatabaseSettings{
			Path: "",
		},
		API: APISettings{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		App: AppSettings{
			DebugMode:   false,
			BuildTrials: 3,
		},
	}
}

// settingsPath returns the path to the configuration file.
func settingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".desktopmtg")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "settings.toml"), nil
}

// Load loads settings from disk. Returns defaults if the file doesn't exist.
func Load() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads settings from an explicit path. Missing keys keep their
// default values so partial files stay valid across upgrades.
func LoadFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	return settings, nil
}

// Save saves the settings to disk.
func (s *Settings) Save() error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// Validate validates the settings values.
func (s *Settings) Validate() error {
	switch s.Scoring.DistanceConversion {
	case ConversionLinear, ConversionSqrt, ConversionExponential, ConversionAggressiveExp:
	default:
		return fmt.Errorf("unknown distance conversion %q", s.Scoring.DistanceConversion)
	}

	switch s.Scoring.Strategy {
	case StrategyPrimaryFallback, StrategyWeightedAverage, StrategyMaximum,
		StrategyProduct, StrategySum, StrategySemanticOnly, StrategyKeywordOnly:
	default:
		return fmt.Errorf("unknown blend strategy %q", s.Scoring.Strategy)
	}

	if s.Scoring.SemanticEpsilon < 0 {
		return fmt.Errorf("semantic epsilon cannot be negative: %v", s.Scoring.SemanticEpsilon)
	}

	if s.Scoring.ThemeCap < 0 {
		return fmt.Errorf("theme cap cannot be negative: %v", s.Scoring.ThemeCap)
	}

	if s.Quotas.Lands < 0 || s.Quotas.Ramp < 0 || s.Quotas.Draw < 0 || s.Quotas.Removal < 0 {
		return fmt.Errorf("quotas cannot be negative")
	}

	if _, err := time.ParseDuration(s.Search.Timeout); err != nil {
		return fmt.Errorf("invalid search timeout %q: %w", s.Search.Timeout, err)
	}

	if _, err := time.ParseDuration(s.Search.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", s.Search.CacheTTL, err)
	}

	if s.Search.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative: %d", s.Search.CacheSize)
	}

	if s.Search.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive: %v", s.Search.RateLimit)
	}

	if s.API.Port <= 0 || s.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", s.API.Port)
	}

	if s.App.BuildTrials < 1 {
		return fmt.Errorf("build trials must be at least 1: %d", s.App.BuildTrials)
	}

	return nil
}

// GetSearchTimeout returns the search request timeout as a duration.
func (s *Settings) GetSearchTimeout() (time.Duration, error) {
	return time.ParseDuration(s.Search.Timeout)
}

// GetCacheTTL returns the search cache TTL as a duration.
func (s *Settings) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(s.Search.CacheTTL)
}

// IdealCurve converts the configured ideal curve to bucket-indexed form,
// buckets 0 through 7 where 7 means "7+".
func (s *Settings) IdealCurve() map[int]float64 {
	out := make(map[int]float64, len(s.Curve.Ideal))
	for label, frac := range s.Curve.Ideal {
		switch label {
		case "7+":
			out[7] = frac
		default:
			var b int
			if _, err := fmt.Sscanf(label, "%d", &b); err == nil && b >= 0 && b <= 7 {
				out[b] = frac
			}
		}
	}
	return out
}
