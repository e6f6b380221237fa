package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CountryAliases is the document shape of COUNTRY_ALIASES_FILE:
//
//	aliases:
//	  "Viet Nam": VNM
//	  "Republic of Korea": KOR
type CountryAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadCountryAliases reads extra country name to code entries. An empty path yields none.
func LoadCountryAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country aliases: %w", err)
	}
	var doc CountryAliases
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse country aliases: %w", err)
	}
	for name, code := range doc.Aliases {
		if name == "" || !isISO3(code) {
			return nil, fmt.Errorf("invalid country alias %q: code %q must be three upper-case letters", name, code)
		}
	}
	return doc.Aliases, nil
}

func isISO3(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := range len(code) {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
