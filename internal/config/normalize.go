package config

import (
	"strings"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
)

// normalize replaces missing or invalid fields with defaults and returns
// one configuration error per replaced field.
func (c *Config) normalize() []error {
	var problems []error

	c.MonitorDirectory = strings.TrimSpace(c.MonitorDirectory)
	if c.MonitorDirectory == "" {
		c.MonitorDirectory = defaultMonitorDirectory
	}
	expanded, err := infra.ExpandPath(c.MonitorDirectory)
	if err != nil {
		problems = append(problems, configErr(err, "monitor_directory"))
		expanded, _ = infra.ExpandPath(defaultMonitorDirectory)
	}
	c.MonitorDirectory = expanded

	if c.IntervalSeconds <= 0 {
		if c.IntervalSeconds < 0 {
			problems = append(problems, domain.With(domain.ErrConfiguration,
				"interval_seconds must be positive, got %d; using %d", c.IntervalSeconds, domain.DefaultIntervalSeconds))
		}
		c.IntervalSeconds = domain.DefaultIntervalSeconds
	}

	if c.Categories == nil {
		c.Categories = defaultCategories()
		return problems
	}

	// Rebuild from the table so names and extensions are in canonical form
	// and invalid entries are gone.
	table, err := c.RuleTable()
	if err != nil {
		problems = append(problems, configErr(err, "categories"))
	}
	c.SetRules(table)

	return problems
}
