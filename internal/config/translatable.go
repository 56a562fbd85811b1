package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Translatable is a setting that is either a single value or a map of
// language code to value. A single value is stored under the empty key.
type Translatable map[string]string

// Get returns the value for lang, falling back to the default language and
// then to the untranslated value.
func (t Translatable) Get(lang, defaultLang string) string {
	if v, ok := t[lang]; ok {
		return v
	}
	if v, ok := t[defaultLang]; ok {
		return v
	}
	return t[""]
}

// IsEmpty reports whether no value is set for any language.
func (t Translatable) IsEmpty() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// UnmarshalYAML accepts a scalar or a language mapping.
func (t *Translatable) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = Translatable{"": value.Value}
		return nil
	case yaml.MappingNode:
		m := map[string]string{}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*t = Translatable(m)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a language map", value.Line)
	}
}

// MarshalYAML writes untranslated settings back as plain scalars.
func (t Translatable) MarshalYAML() (any, error) {
	if v, ok := t[""]; ok && len(t) == 1 {
		return v, nil
	}
	return map[string]string(t), nil
}

func orderedLanguages(defaultLang string, translations map[string]string) []string {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		if lang != defaultLang {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	if _, ok := translations[defaultLang]; ok || len(translations) == 0 {
		langs = append([]string{defaultLang}, langs...)
	}
	return langs
}
