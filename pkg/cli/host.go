package cli

import (
	"flag"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/diplomacy/pkg/builtin"
	"github.com/platinummonkey/diplomacy/pkg/catalog"
	"github.com/platinummonkey/diplomacy/pkg/config"
	"github.com/platinummonkey/diplomacy/pkg/consul"
	"github.com/platinummonkey/diplomacy/pkg/dispatch"
	"github.com/platinummonkey/diplomacy/pkg/frontdesk"
	"github.com/platinummonkey/diplomacy/pkg/observability"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/registry"
)

// pathList collects a repeatable string flag
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// hostFlags are the flags shared by every command that builds a host
type hostFlags struct {
	configPath string
	paths      pathList
	selector   string
}

func (h *hostFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&h.configPath, "config", "", "Path to a YAML configuration file")
	fs.Var(&h.paths, "path", "Plugin search location (repeatable)")
	fs.StringVar(&h.selector, "selector", "", "CEL expression a candidate descriptor must satisfy")
}

func (h *hostFlags) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Plugins.SearchPaths = append(cfg.Plugins.SearchPaths, h.paths...)
	if h.selector != "" {
		cfg.Plugins.Selector = h.selector
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *logrus.Logger {
	return observability.NewLogger(
		cfg.Observability.Level(),
		observability.LogFormat(cfg.Observability.LogFormat),
		out,
	)
}

// newHost wires the ambassador and clerk registries from cfg. When a
// watch directory is configured the built-ins come from a module carrying
// it instead of the process-wide table.
func newHost(cfg *config.Config, log *logrus.Logger, metrics *observability.Metrics) (*consul.Consul, error) {
	catOpts := []catalog.Option{catalog.WithLogger(log)}
	regOpts := []registry.Option{
		registry.WithLogger(log),
		registry.WithMetrics(metrics),
		registry.WithSearchPaths(cfg.Plugins.SearchPaths...),
		registry.WithImplicitLoad(cfg.Plugins.ImplicitLoad),
		registry.WithParallelLifecycle(cfg.Plugins.ParallelLifecycle),
	}
	if cfg.Plugins.Selector != "" {
		sel, err := catalog.NewSelector(cfg.Plugins.Selector)
		if err != nil {
			return nil, err
		}
		catOpts = append(catOpts, catalog.WithSelector(sel))
	}
	if cfg.Plugins.WatchDir != "" {
		catOpts = append(catOpts, catalog.WithoutBuiltins())
		regOpts = append(regOpts, registry.WithModules(builtin.Module(
			builtin.WithWatchDir(cfg.Plugins.WatchDir),
			builtin.WithLogger(log),
		)))
	}

	d, err := dispatch.New(catalog.New[plugin.Ambassador](plugin.CapabilityAmbassador, catOpts...), regOpts...)
	if err != nil {
		return nil, err
	}
	f, err := frontdesk.New(catalog.New[plugin.Clerk](plugin.CapabilityClerk, catOpts...), regOpts...)
	if err != nil {
		return nil, err
	}

	return consul.New(d, f, log), nil
}
