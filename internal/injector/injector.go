//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/broadphase/internal/config"
	"github.com/zeusync/broadphase/internal/replay"
)

func InitializeRunner(cfg config.Config) (*replay.Runner, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
