package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a JSON config file over top of Default(), the same
// read-defaults-then-overlay-file approach as the teacher's loadConfig in
// cmd/trainer/main.go. A missing filename or missing file is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
