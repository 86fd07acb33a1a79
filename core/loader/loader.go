// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package loader discovers the locale variants of one resource module on
disk and furnishes their decoded text to the pipeline.

The expected layout follows the usual Apple conventions:

	<module>/Resources/<locale>.lproj/<Table>.strings

The <locale> directory part may use hyphens or underscores, for example
"pt-BR.lproj" or "pt_BR.lproj", and is normalised to a canonical BCP 47
language tag. Files are decoded as UTF-8 or, when a byte order mark is
present, UTF-16.
*/
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// Logger is the logger used by package loader.
var Logger = log.With().Str("sys", "loader").Logger()

// ErrNoLocales is returned when a module directory contains no usable
// locale directories.
var ErrNoLocales = errors.New("no .lproj locale directories found")

// LocaleFile is one locale's resource file within a module.
type LocaleFile struct {
	Tag  language.Tag
	Path string
}

// ModuleSource is one resource module's discovered inputs.
type ModuleSource struct {
	// Name is the module directory's base name.
	Name string

	// Path is the module directory.
	Path string

	// Locales holds one entry per usable locale, sorted by canonical tag.
	Locales []LocaleFile
}

// Discover scans modulePath for locale variants of the named table.
// Locale directories whose names do not parse as language tags are
// skipped with a warning, matching how unknown catalog files are treated
// elsewhere.
func Discover(modulePath, tableName string) (*ModuleSource, error) {
	return discover(modulePath, tableName, &Logger)
}

func discover(modulePath, tableName string, logger *zerolog.Logger) (*ModuleSource, error) {
	resources := filepath.Join(modulePath, "Resources")

	if _, err := os.Stat(resources); err != nil {
		// Modules without a Resources directory hold their .lproj
		// directories at the top level.
		resources = modulePath
	}

	entries, err := os.ReadDir(resources)
	if err != nil {
		return nil, fmt.Errorf("failed to read module directory: %w", err)
	}

	src := &ModuleSource{
		Name: filepath.Base(filepath.Clean(modulePath)),
		Path: modulePath,
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lproj") {
			continue
		}

		localeName := strings.TrimSuffix(entry.Name(), ".lproj")

		// Accept both underscore and hyphen; convert to a canonical
		// BCP 47 string for matching and display.
		tag, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			logger.Warn().Err(err).Str("dir", entry.Name()).Msg("Skipping invalid locale directory")
			continue
		}

		path := filepath.Join(resources, entry.Name(), tableName+".strings")
		if _, err := os.Stat(path); err != nil {
			logger.Warn().Str("locale", tag.String()).Str("path", path).Msg("Locale has no strings table")
			continue
		}

		src.Locales = append(src.Locales, LocaleFile{Tag: tag, Path: path})
	}

	if len(src.Locales) == 0 {
		return nil, fmt.Errorf("%s: %w", modulePath, ErrNoLocales)
	}

	sort.Slice(src.Locales, func(i, j int) bool {
		return src.Locales[i].Tag.String() < src.Locales[j].Tag.String()
	})

	return src, nil
}

// ReadText returns the decoded text of the locale file. A UTF-16 byte
// order mark switches decoding accordingly; otherwise UTF-8 is assumed.
func (f LocaleFile) ReadText() (string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open strings file: %w", err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	text, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return "", fmt.Errorf("failed to decode strings file %s: %w", f.Path, err)
	}

	return string(text), nil
}
