// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// validation errors.
var (
	errNoModules          = errors.New("no resource modules supplied. Please supply at least one module directory")
	errEmptyTableName     = errors.New("generator.table cannot be empty")
	errEmptyDelimiter     = errors.New("generator.delimiter cannot be empty")
	errInvalidPackageName = errors.New("generator.package is not a valid Go package name")
	errInvalidJobs        = errors.New("generator.jobs must be at least 1")
	errInvalidLogLevel    = errors.New("invalid Log.Level value")
	errInvalidLogFormat   = errors.New("invalid Log.Format value")
)

var packageNameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// validateAndSet validates the generator configuration and populates some fields.
func (cfg *GeneratorConfig) validateAndSet() error {
	if len(cfg.Generator.Modules) == 0 {
		return errNoModules
	}

	if cfg.Generator.TableName == "" {
		return errEmptyTableName
	}

	if cfg.Generator.Delimiter == "" {
		return errEmptyDelimiter
	}

	if _, err := language.Parse(strings.ReplaceAll(cfg.Generator.BaseLocale, "_", "-")); err != nil {
		return fmt.Errorf("invalid generator.baseLocale %q: %w", cfg.Generator.BaseLocale, err)
	}

	if !packageNameRegexp.MatchString(cfg.Generator.PackageName) {
		return fmt.Errorf("%w: %q", errInvalidPackageName, cfg.Generator.PackageName)
	}

	if cfg.Generator.Jobs < 1 {
		return errInvalidJobs
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return errInvalidLogLevel
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return errInvalidLogFormat
	}

	return nil
}

// BaseLocaleTag returns the parsed canonical base locale. Call after
// validateAndSet.
func (cfg *GeneratorConfig) BaseLocaleTag() language.Tag {
	tag, _ := language.Parse(strings.ReplaceAll(cfg.Generator.BaseLocale, "_", "-"))

	return tag
}
