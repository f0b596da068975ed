package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/broadphase/internal/config"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/replay"
)

var ProviderSet = wire.NewSet(ProvideLogger, replay.NewRunner)

// ProvideLogger validates cfg and builds the process logger at its level.
func ProvideLogger(cfg config.Config) (log.Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return log.New(cfg.Level()), nil
}
