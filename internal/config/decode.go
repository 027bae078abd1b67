package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// tomlFields mirrors Config with untyped values so one mistyped field does
// not fail the whole document.
type tomlFields struct {
	MonitorDirectory any `toml:"monitor_directory"`
	AutoOrganize     any `toml:"auto_organize"`
	IntervalSeconds  any `toml:"interval_seconds"`
	Categories       any `toml:"categories"`
}

// decode parses data into a Config. A syntax error fails the whole file;
// type errors are returned per field and leave that field unset.
func decode(path string, data []byte) (*Config, []error, error) {
	if IsLegacyPath(path) {
		return decodeLegacy(data)
	}

	var raw tomlFields
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, nil, err
	}

	var cfg Config
	var problems []error
	assign(&problems, "monitor_directory", raw.MonitorDirectory, &cfg.MonitorDirectory)
	assign(&problems, "auto_organize", raw.AutoOrganize, &cfg.AutoOrganize)

	var interval int64
	if assign(&problems, "interval_seconds", raw.IntervalSeconds, &interval) {
		cfg.IntervalSeconds = int(interval)
	}

	if raw.Categories != nil {
		cats, errs := decodeCategories(raw.Categories)
		cfg.Categories = cats
		problems = append(problems, errs...)
	}
	return &cfg, problems, nil
}

// assign stores v in dst when it has dst's type and reports whether it did.
// A nil v means the key was absent.
func assign[T any](problems *[]error, field string, v any, dst *T) bool {
	if v == nil {
		return false
	}
	t, ok := v.(T)
	if !ok {
		*problems = append(*problems, fieldError(field, "expected %T, got %T %v", *dst, v, v))
		return false
	}
	*dst = t
	return true
}

// decodeCategories converts an array of tables into rules. Malformed
// entries are dropped; a value that is not an array yields nil, which
// selects the built-in rules.
func decodeCategories(v any) ([]CategoryRule, []error) {
	list, ok := v.([]any)
	if !ok {
		return nil, []error{fieldError("categories", "expected an array of tables, got %T", v)}
	}

	var problems []error
	cats := make([]CategoryRule, 0, len(list))
	for i, item := range list {
		field := fmt.Sprintf("categories[%d]", i)
		table, ok := item.(map[string]any)
		if !ok {
			problems = append(problems, fieldError(field, "expected a table, got %T", item))
			continue
		}
		var rule CategoryRule
		if !assign(&problems, field+".name", table["name"], &rule.Name) {
			if table["name"] == nil {
				problems = append(problems, fieldError(field, "missing name"))
			}
			continue
		}
		rule.Extensions = []string{}
		if raw, present := table["extensions"]; present {
			exts, ok := raw.([]any)
			if !ok {
				problems = append(problems, fieldError(field+".extensions", "expected an array, got %T", raw))
			}
			for j, ext := range exts {
				var s string
				if assign(&problems, fmt.Sprintf("%s.extensions[%d]", field, j), ext, &s) {
					rule.Extensions = append(rule.Extensions, s)
				}
			}
		}
		cats = append(cats, rule)
	}
	return cats, problems
}

func fieldError(field, msgFmt string, args ...any) error {
	return fmt.Errorf("field %s: %s", field, fmt.Sprintf(msgFmt, args...))
}
