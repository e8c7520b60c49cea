package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IntentKeyword is one entry of an intent normalization table.
type IntentKeyword struct {
	Fragment string `yaml:"fragment"`
	Intent   Intent `yaml:"intent"`
}

// PatternFile is the on-disk shape of an intent keyword override.
type PatternFile struct {
	IntentKeywords []IntentKeyword `yaml:"intent_keywords"`
}

// LoadKeywordTable reads an intent keyword table from a YAML file. Unknown
// intents are rejected so a typo cannot silently swallow a category.
func LoadKeywordTable(path string) ([]IntentKeyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file PatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse keyword table %s: %w", path, err)
	}

	for i, entry := range file.IntentKeywords {
		if entry.Fragment == "" {
			return nil, fmt.Errorf("keyword table entry %d: fragment required", i)
		}
		if _, ok := ParseIntent(string(entry.Intent)); !ok {
			return nil, fmt.Errorf("keyword table entry %d: unknown intent %q", i, entry.Intent)
		}
	}
	return file.IntentKeywords, nil
}
