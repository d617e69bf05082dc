// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cipherlite/cipherlite-go/pkg/snapshot"
)

// Config maps the CLI's YAML config file:
//
//	database:
//	  url: sqlite://app.db?key=passphrase
//	snapshot:
//	  endpoint: localhost:9000
//	  access_key_id: minioadmin
//	  secret_access_key: minioadmin
//	  bucket: cipherlite-snapshots
//	  use_ssl: false
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Snapshot snapshot.Config `yaml:"snapshot"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
