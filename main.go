// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
stringc is a build-time compiler for Apple-style .strings resource files.

It parses every locale's table, reconciles placeholder signatures across
locales, and emits one self-contained Go source file per resource module.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/stringc/stringc/configs"
	"codeberg.org/stringc/stringc/core/audit"
	"codeberg.org/stringc/stringc/core/generator"
	"codeberg.org/stringc/stringc/core/loader"
	"codeberg.org/stringc/stringc/core/render"
)

var errCompilationFailed = errors.New("compilation failed")

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Compilation failed")
	}
}

// run orchestrates the whole compilation batch.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &config.Global

	var (
		mu      sync.Mutex
		reports []*generator.Report
		failed  []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Generator.Jobs)

	for _, modulePath := range cfg.Generator.Modules {
		g.Go(func() error {
			report, err := compileModule(ctx, cfg, modulePath)

			mu.Lock()
			defer mu.Unlock()

			if report != nil {
				reports = append(reports, report)
			}

			if err != nil {
				log.Error().Err(err).Str("module", modulePath).Msg("Module failed")
				failed = append(failed, modulePath)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.Coverage.ReportPath != "" {
		if err := generator.WriteReports(cfg.Coverage.ReportPath, reports); err != nil {
			return err
		}

		log.Info().
			Str("path", cfg.Coverage.ReportPath).
			Int("modules", len(reports)).
			Msg("Wrote coverage report")
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d modules", errCompilationFailed, len(failed), len(cfg.Generator.Modules))
	}

	log.Info().Int("modules", len(cfg.Generator.Modules)).Msg("Compilation finished")

	return nil
}

// compileModule runs the full pipeline for one resource module and writes
// its generated source file. The returned report may be non-nil even when
// compilation failed for individual keys.
func compileModule(ctx context.Context, cfg *config.GeneratorConfig, modulePath string) (*generator.Report, error) {
	src, err := loader.Discover(modulePath, cfg.Generator.TableName)
	if err != nil {
		return nil, err
	}

	span := audit.Span{Module: src.Name, Locales: len(src.Locales)}
	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	res, err := generator.Process(ctx, src, generator.Options{
		BaseLocale:           cfg.BaseLocaleTag(),
		Delimiter:            cfg.Generator.Delimiter,
		AllowPartialCoverage: cfg.Coverage.AllowPartial,
		FailOnUntranslated:   cfg.Coverage.FailOnUntranslated,
	})

	var report *generator.Report

	if res != nil {
		for _, d := range res.Diags.All() {
			d.Module = src.Name
			d.Log(&log.Logger)
		}

		span.Errors, span.Warnings = res.Diags.Counts()
		report = res.Report
	}

	if err != nil {
		span.Error = err

		return report, err
	}

	if res.Diags.HasErrors() {
		// Key-scoped failures: the module still compiles, but the batch
		// must not exit zero.
		err = fmt.Errorf("%s: %w", src.Name, errCompilationFailed)
	}

	data, renderErr := render.GoSource(res.Module, render.Options{Package: cfg.Generator.PackageName})
	if renderErr != nil {
		span.Error = renderErr

		return report, renderErr
	}

	outPath := filepath.Join(cfg.Generator.OutputDir, src.Name+"_strings.gen.go")
	if writeErr := render.WriteFile(outPath, data); writeErr != nil {
		span.Error = writeErr

		return report, writeErr
	}

	if report != nil {
		span.Keys = report.TotalKeys
	}

	span.Output = outPath

	log.Info().
		Str("module", src.Name).
		Str("output", outPath).
		Str("size", audit.HumanizeSize(len(data))).
		Int("locales", len(res.Module.Locales)).
		Msg("Compiled module")

	return report, err
}
