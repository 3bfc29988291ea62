package config_fx

import (
	"go.uber.org/fx"

	"tripcraft/internal/config"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(config.Load, provideClock)

func provideClock() utils.Clock {
	return utils.SystemClock()
}
