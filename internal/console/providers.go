// FilePath: server/sweeps/internal/console/providers.go
package console

import (
	"github.com/google/wire"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/monitoring"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepclient"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
)

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideBackendConfig,
	sweepclient.New,
	wire.Bind(new(sweepview.Backend), new(*sweepclient.Client)),
	ProvideMonitoring,
	ProvideView,
	NewServer,
)

func ProvideConfig() (*config.Config, error) { return config.Load() }

func ProvideBackendConfig(cfg *config.Config) config.BackendConfig { return cfg.Backend }

func ProvideMonitoring() *monitoring.Service {
	return monitoring.NewService(monitoring.Config{Namespace: "sweeps_console"})
}

// ProvideView builds the console's view. Downloads go to the requesting
// browser, so the view has no default saver.
func ProvideView(backend sweepview.Backend) *sweepview.Component {
	return sweepview.New(backend, nil)
}
