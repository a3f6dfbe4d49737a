package config_fx

import (
	"go.uber.org/fx"
	"tripvote/internal/config"
)

var Module = fx.Provide(config.Load, providePlanner)

func providePlanner(cfg config.Config) config.PlannerConfig {
	return cfg.Planner
}
