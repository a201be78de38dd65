package engineconfig

import "github.com/wonny/tradedash/internal/metrics"

// File is the engine settings file
// ⭐ SSOT: 엔진 파라미터는 이 YAML 한 곳에서만 정의
type File struct {
	Meta   Meta           `yaml:"meta" json:"meta"`
	Engine metrics.Config `yaml:"engine" json:"engine"`
	Warmup Warmup         `yaml:"warmup" json:"warmup"`
}

// Meta identifies the settings revision
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Warmup selects which windows the scheduled job precomputes
type Warmup struct {
	TrailingDays []int `yaml:"trailing_days" json:"trailing_days"`
	YearToDate   bool  `yaml:"year_to_date" json:"year_to_date"`
}

// Default returns the settings used when no file is configured
func Default() *File {
	return &File{
		Meta:   Meta{Name: "default"},
		Engine: metrics.DefaultConfig(),
		Warmup: Warmup{
			TrailingDays: []int{30},
			YearToDate:   true,
		},
	}
}
