package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// legacySettings is the JSON settings layout written by earlier releases.
// file_mappings is an object whose key order is the classification order.
type legacySettings struct {
	MonitorDir    string          `json:"monitor_dir"`
	FileMappings  orderedMappings `json:"file_mappings"`
	AutoOrganize  bool            `json:"auto_organize"`
	CheckInterval int             `json:"check_interval"`
}

// orderedMappings decodes a JSON object of category -> extensions keeping key order.
// Categories whose value is not a list of strings are skipped and recorded.
type orderedMappings struct {
	set      bool
	rules    []CategoryRule
	problems []error
}

func (m *orderedMappings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	rules := make([]CategoryRule, 0)
	var problems []error
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		exts := []string{}
		if err := json.Unmarshal(raw, &exts); err != nil {
			problems = append(problems, fieldError("file_mappings["+strconv.Quote(name)+"]", "%v", err))
			continue
		}
		if exts == nil {
			exts = []string{}
		}
		rules = append(rules, CategoryRule{Name: name, Extensions: exts})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	m.set, m.rules, m.problems = true, rules, problems
	return nil
}

func (m orderedMappings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range m.rules {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rule.Name)
		if err != nil {
			return nil, err
		}
		exts := rule.Extensions
		if exts == nil {
			exts = []string{}
		}
		val, err := json.Marshal(exts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// legacyFields holds the raw value of each known key so a mistyped one can
// be reported and defaulted on its own.
type legacyFields struct {
	MonitorDir    json.RawMessage `json:"monitor_dir"`
	FileMappings  json.RawMessage `json:"file_mappings"`
	AutoOrganize  json.RawMessage `json:"auto_organize"`
	CheckInterval json.RawMessage `json:"check_interval"`
}

func decodeLegacy(data []byte) (*Config, []error, error) {
	var raw legacyFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	cfg := &Config{}
	var problems []error
	field := func(name string, msg json.RawMessage, dst any) bool {
		if len(msg) == 0 || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			return false
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			problems = append(problems, fieldError(name, "%v", err))
			return false
		}
		return true
	}

	var dir string
	if field("monitor_dir", raw.MonitorDir, &dir) {
		cfg.MonitorDirectory = dir
	}
	var auto bool
	if field("auto_organize", raw.AutoOrganize, &auto) {
		cfg.AutoOrganize = auto
	}
	var interval int
	if field("check_interval", raw.CheckInterval, &interval) {
		cfg.IntervalSeconds = interval
	}
	var mappings orderedMappings
	if field("file_mappings", raw.FileMappings, &mappings) && mappings.set {
		cfg.Categories = mappings.rules
		problems = append(problems, mappings.problems...)
	}
	return cfg, problems, nil
}

func encodeLegacy(cfg *Config) ([]byte, error) {
	s := legacySettings{
		MonitorDir:    cfg.MonitorDirectory,
		FileMappings:  orderedMappings{set: true, rules: cfg.Categories},
		AutoOrganize:  cfg.AutoOrganize,
		CheckInterval: cfg.IntervalSeconds,
	}
	return json.MarshalIndent(s, "", "    ")
}
