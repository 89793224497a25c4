// Package config holds the nested, JSON-tagged configuration tree for the
// trainer and query CLIs, mirroring the teacher's internal/config/types.go
// layout: one pointer-typed sub-struct per concern.
package config

type Config struct {
	Vocab      *VocabConfig      `json:"vocab"`
	Training   *TrainingConfig   `json:"training"`
	Search     *SearchConfig     `json:"search"`
	Storage    *StorageConfig    `json:"storage"`
	Logging    *LoggingConfig    `json:"logging"`
}

type VocabConfig struct {
	MinFrequency int `json:"min_frequency"`
}

// TrainingConfig mirrors the trainer's enumerated options.
type TrainingConfig struct {
	Type                   string  `json:"type"` // "cbow" | "skip_gram"
	LayerSize              int     `json:"layer_size"`
	WindowSize             int     `json:"window_size"`
	NumThreads             int     `json:"num_threads"`
	Iterations             int     `json:"iterations"`
	NegativeSamples        int     `json:"negative_samples"`
	UseHierarchicalSoftmax bool    `json:"use_hierarchical_softmax"`
	DownSampleRate         float64 `json:"down_sample_rate"`
	InitialLearningRate    float64 `json:"initial_learning_rate"`
}

type SearchConfig struct {
	DefaultTopK int `json:"default_top_k"`
}

type StorageConfig struct {
	BuildCachePath string `json:"build_cache_path"`
	ExportDir      string `json:"export_dir"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// Default returns a Config populated with the trainer's documented defaults.
func Default() *Config {
	return &Config{
		Vocab: &VocabConfig{MinFrequency: 5},
		Training: &TrainingConfig{
			Type:                   "skip_gram",
			LayerSize:              100,
			WindowSize:             5,
			NumThreads:             0, // 0 => hardware concurrency, resolved by trainer
			Iterations:             5,
			NegativeSamples:        0,
			UseHierarchicalSoftmax: false,
			DownSampleRate:         1e-3,
			InitialLearningRate:    0, // 0 => variant default, resolved by trainer
		},
		Search:  &SearchConfig{DefaultTopK: 10},
		Storage: &StorageConfig{},
		Logging: &LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
	}
}
