package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "shelf-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArchiveConfig holds settings for the granule fetch stage.
type ArchiveConfig struct {
	HTTPConfig `yaml:",inline"`

	// ShortName is the archive product short name to query (e.g. "ATL06").
	ShortName string `json:"short_name" yaml:"short_name"`

	// Version is the product version string.
	Version string `json:"version" yaml:"version"`

	// Token is the Earthdata bearer token, usually loaded from .secrets/.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// DataDir is the base data directory (contains granules/, fronts/, results/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults caps the number of granules returned by a query (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DetectionConfig holds the rampart-moat search constants and batch settings.
type DetectionConfig struct {
	// MoatLowerLimit is the height floor a moat must stay above (default 2).
	MoatLowerLimit float64 `json:"moat_h_lower_limit" yaml:"moat_h_lower_limit"`

	// MoatSearchDist bounds the moat search distance from the front (default 2000).
	MoatSearchDist float64 `json:"moat_search_dist" yaml:"moat_search_dist"`

	// RampartSearchDist bounds the rampart search distance (default 100).
	RampartSearchDist float64 `json:"rampart_max_search_dist" yaml:"rampart_max_search_dist"`

	// SampleSpacing is the nominal along-track distance between samples
	// (default 20); the walk step budgets are derived from it.
	SampleSpacing float64 `json:"sample_spacing" yaml:"sample_spacing"`

	// Workers is the number of profiles processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// DataDir is the base data directory (contains fronts/, results/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Default search constants. Distances are along-track metres, heights metres
// above the reference level.
const (
	DefaultMoatLowerLimit    = 2.0
	DefaultMoatSearchDist    = 2000.0
	DefaultRampartSearchDist = 100.0
	DefaultSampleSpacing     = 20.0
	DefaultWorkers           = 4
)

// WithDefaults fills unset fields with the default search constants.
func (c DetectionConfig) WithDefaults() DetectionConfig {
	if c.MoatLowerLimit == 0 {
		c.MoatLowerLimit = DefaultMoatLowerLimit
	}
	if c.MoatSearchDist == 0 {
		c.MoatSearchDist = DefaultMoatSearchDist
	}
	if c.RampartSearchDist == 0 {
		c.RampartSearchDist = DefaultRampartSearchDist
	}
	if c.SampleSpacing == 0 {
		c.SampleSpacing = DefaultSampleSpacing
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// FrontsConfig holds settings for running the upstream front detector.
type FrontsConfig struct {
	// Image is the container image of the upstream ice-front detector.
	Image string `json:"image" yaml:"image"`

	// DataDir is the base data directory (contains granules/, fronts/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// StoreConfig holds settings for the result store.
type StoreConfig struct {
	// DataDir is the base data directory (contains results/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ReportConfig holds settings for the summary report stage.
type ReportConfig struct {
	// DataDir is the base data directory (contains results/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// OutputDir is the directory for rendered reports (e.g. "reports/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Detection DetectionConfig `json:"detection" yaml:"detection"`
	Fronts    FrontsConfig    `json:"fronts" yaml:"fronts"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Report    ReportConfig    `json:"report" yaml:"report"`
}
