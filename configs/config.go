// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Global exposes the generator configuration.
var Global GeneratorConfig

// GeneratorConfig holds the generator configuration.
type GeneratorConfig struct {
	Build buildInfo `yaml:"-"`

	Generator struct {
		// Modules lists the resource module directories to compile.
		// Positional command-line arguments take precedence.
		Modules     []string `env:"STRINGC_MODULES,overwrite" yaml:"modules"`
		TableName   string   `env:"STRINGC_TABLE,overwrite" yaml:"table"`
		BaseLocale  string   `env:"STRINGC_BASE_LOCALE,overwrite" yaml:"baseLocale"`
		Delimiter   string   `env:"STRINGC_DELIMITER,overwrite" yaml:"delimiter"`
		OutputDir   string   `env:"STRINGC_OUTPUT_DIR,overwrite" yaml:"outputDir"`
		PackageName string   `env:"STRINGC_PACKAGE,overwrite" yaml:"package"`
		Jobs        int      `env:"STRINGC_JOBS,overwrite" yaml:"jobs"`
	} `yaml:"generator"`

	Coverage struct {
		ReportPath         string `env:"STRINGC_COVERAGE_REPORT,overwrite" yaml:"reportPath"`
		AllowPartial       bool   `env:"STRINGC_ALLOW_PARTIAL,overwrite" yaml:"allowPartial"`
		FailOnUntranslated bool   `env:"STRINGC_FAIL_ON_UNTRANSLATED,overwrite" yaml:"failOnUntranslated"`
	} `yaml:"coverage"`

	Log struct {
		Level   string   `env:"STRINGC_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"STRINGC_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"STRINGC_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Instance struct {
		StartingTime string `yaml:"-"`
	} `yaml:"-"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *GeneratorConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (STRINGC_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("STRINGC_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Fallback check for "./stringc.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./stringc.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if args := flag.Args(); len(args) > 0 {
		cfg.Generator.Modules = args
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}
