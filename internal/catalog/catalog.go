// Package catalog serves the static country and language tables used to
// filter headlines.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

type tables struct {
	Countries []domain.Country  `json:"countries" yaml:"countries"`
	Languages []domain.Language `json:"languages" yaml:"languages"`
}

// Catalog is an immutable, name-sorted set of country and language tables.
type Catalog struct {
	countries []domain.Country
	languages []domain.Language
}

// Default returns the embedded tables.
func Default() (*Catalog, error) {
	var t tables
	for _, name := range []string{"data/countries.yaml", "data/languages.yaml"} {
		raw, err := embedded.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", name, err)
		}
		var part tables
		if err := yaml.Unmarshal(raw, &part); err != nil {
			return nil, fmt.Errorf("decode embedded %s: %w", name, err)
		}
		t.Countries = append(t.Countries, part.Countries...)
		t.Languages = append(t.Languages, part.Languages...)
	}
	return build(t)
}

// Load returns the embedded tables, with any section present in the override
// file at path replacing its embedded counterpart. An empty path means no
// override.
func Load(path string) (*Catalog, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	override, err := parseTables(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(override.Countries) == 0 && len(override.Languages) == 0 {
		return nil, errors.New("catalog file contains no countries or languages")
	}

	merged := tables{Countries: base.countries, Languages: base.languages}
	if len(override.Countries) > 0 {
		merged.Countries = override.Countries
	}
	if len(override.Languages) > 0 {
		merged.Languages = override.Languages
	}
	return build(merged)
}

func parseTables(data []byte, ext string) (tables, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var t tables
		if err := d.fn(data, &t); err == nil {
			return t, nil
		}
	}
	return tables{}, errors.New("catalog file format not recognized (expected YAML or JSON)")
}

func build(t tables) (*Catalog, error) {
	countries := make([]domain.Country, 0, len(t.Countries))
	codes := make(map[string]bool, len(t.Countries))
	names := make(map[string]bool, len(t.Countries))
	for i, c := range t.Countries {
		c = domain.Country{Code: sanitizeCode(c.Code), Name: strings.TrimSpace(c.Name)}
		if err := validateEntry(c.Code, c.Name, codes, names); err != nil {
			return nil, fmt.Errorf("country[%d]: %w", i, err)
		}
		countries = append(countries, c)
	}

	languages := make([]domain.Language, 0, len(t.Languages))
	codes = make(map[string]bool, len(t.Languages))
	names = make(map[string]bool, len(t.Languages))
	for i, l := range t.Languages {
		l = domain.Language{Code: sanitizeCode(l.Code), Name: strings.TrimSpace(l.Name)}
		if err := validateEntry(l.Code, l.Name, codes, names); err != nil {
			return nil, fmt.Errorf("language[%d]: %w", i, err)
		}
		languages = append(languages, l)
	}

	sort.SliceStable(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
	sort.SliceStable(languages, func(i, j int) bool { return languages[i].Name < languages[j].Name })

	return &Catalog{countries: countries, languages: languages}, nil
}

func sanitizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func validateEntry(code, name string, codes, names map[string]bool) error {
	if len(code) != 2 {
		return fmt.Errorf("code %q must be two letters", code)
	}
	if name == "" {
		return fmt.Errorf("name is required for code %q", code)
	}
	if codes[code] {
		return fmt.Errorf("duplicate code %q", code)
	}
	if names[name] {
		return fmt.Errorf("duplicate name %q", name)
	}
	codes[code] = true
	names[name] = true
	return nil
}

// Countries returns a copy of the country table.
func (c *Catalog) Countries(context.Context) ([]domain.Country, error) {
	if c == nil || len(c.countries) == 0 {
		return nil, errors.New("country table is empty")
	}
	return append([]domain.Country(nil), c.countries...), nil
}

// Languages returns a copy of the language table.
func (c *Catalog) Languages(context.Context) ([]domain.Language, error) {
	if c == nil || len(c.languages) == 0 {
		return nil, errors.New("language table is empty")
	}
	return append([]domain.Language(nil), c.languages...), nil
}

// CountryName resolves a code, for display.
func (c *Catalog) CountryName(code string) (string, bool) {
	code = sanitizeCode(code)
	for _, country := range c.countries {
		if country.Code == code {
			return country.Name, true
		}
	}
	return "", false
}

// LanguageName resolves a code, for display.
func (c *Catalog) LanguageName(code string) (string, bool) {
	code = sanitizeCode(code)
	for _, lang := range c.languages {
		if lang.Code == code {
			return lang.Name, true
		}
	}
	return "", false
}
