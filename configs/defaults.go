// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "runtime"

// SetDefaults populates the configuration with default values.
func (cfg *GeneratorConfig) SetDefaults() {
	cfg.Generator.TableName = "Localizable"
	cfg.Generator.BaseLocale = "en"
	cfg.Generator.Delimiter = "."
	cfg.Generator.OutputDir = "."
	// Not "strings": that would shadow the stdlib package name for
	// every importer of the generated code.
	cfg.Generator.PackageName = "loc"
	cfg.Generator.Jobs = runtime.GOMAXPROCS(0)

	cfg.Coverage.ReportPath = ""
	cfg.Coverage.AllowPartial = true
	cfg.Coverage.FailOnUntranslated = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
