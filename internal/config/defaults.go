package config

import (
	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
)

const (
	defaultConfigPath       = "~/.config/deskorg/config.toml"
	defaultMonitorDirectory = "~/Desktop"
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	cfg := Config{
		MonitorDirectory: defaultMonitorDirectory,
		AutoOrganize:     false,
		IntervalSeconds:  domain.DefaultIntervalSeconds,
	}
	cfg.Categories = defaultCategories()
	return cfg
}

func defaultCategories() []CategoryRule {
	cats := rules.DefaultCategories()
	out := make([]CategoryRule, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryRule{Name: c.Name, Extensions: c.Extensions})
	}
	return out
}
