// Package consul hosts the ambassador and clerk registries and controls
// their start and stop as one unit.
package consul

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/diplomacy/pkg/dispatch"
	"github.com/platinummonkey/diplomacy/pkg/frontdesk"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Consul owns a Dispatch and a FrontDesk. It is the request sink handed to
// every clerk, but it does not route requests to ambassadors.
type Consul struct {
	dispatch  *dispatch.Dispatch
	frontDesk *frontdesk.FrontDesk
	log       *logrus.Logger

	// mu serializes Start and Stop; started is read without it so clerks
	// can submit requests while a Stop is waiting on them.
	mu      sync.Mutex
	started atomic.Bool
}

var _ plugin.ConsulRequest = (*Consul)(nil)

// New creates a Consul over d and f.
func New(d *dispatch.Dispatch, f *frontdesk.FrontDesk, log *logrus.Logger) *Consul {
	if log == nil {
		log = logrus.New()
	}
	return &Consul{dispatch: d, frontDesk: f, log: log}
}

// Start loads both registries, hands every clerk this consul, then starts
// ambassadors before clerks. Empty registries are not an error.
func (c *Consul) Start(ctx context.Context) result.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started.Load() {
		return result.New(result.AlreadyInitialized)
	}

	c.dispatch.Load(ctx)
	c.frontDesk.Load(ctx)

	clerks := c.frontDesk.Registry()
	for _, id := range clerks.IDs() {
		clerk, _ := clerks.GetPlugin(id)
		if res := clerk.SetConsul(c); !res.IsSuccess() {
			c.log.Warnf("Clerk %s rejected consul: %s", id, res.Code.Message())
		}
	}

	if res := c.dispatch.StartAmbassadors(ctx); !res.IsSuccess() {
		c.log.Infof("Ambassadors: %s", res.Code.Message())
	}
	// Clerks may submit requests as soon as they start.
	c.started.Store(true)
	if res := c.frontDesk.StartClerks(ctx); !res.IsSuccess() {
		c.log.Infof("Clerks: %s", res.Code.Message())
	}

	c.log.Infof("Consul started with %d ambassadors and %d clerks",
		c.dispatch.Registry().Len(), clerks.Len())
	return result.OK()
}

// Stop stops clerks, then ambassadors.
func (c *Consul) Stop(ctx context.Context) result.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started.Load() {
		return result.New(result.NotInitialized)
	}

	c.frontDesk.StopClerks(ctx)
	c.dispatch.StopAmbassadors(ctx)

	c.started.Store(false)
	c.log.Info("Consul stopped")
	return result.OK()
}

// Rediscover loads both registries again and starts the plugins that were
// not registered before, handing new clerks this consul first. Plugins that
// are already registered are left running. Returns NotInitialized when the
// consul is not started.
func (c *Consul) Rediscover(ctx context.Context) result.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started.Load() {
		return result.New(result.NotInitialized)
	}

	_, ambassadors := c.dispatch.Registry().LoadWithReport(ctx)
	_, clerks := c.frontDesk.Registry().LoadWithReport(ctx)

	for _, id := range ambassadors.Registered {
		amb, _ := c.dispatch.GetAmbassador(id)
		if res := amb.Start(); !res.IsSuccess() {
			c.log.Warnf("Ambassador %s failed to start: %s", id, res.Code.Message())
		}
	}
	for _, id := range clerks.Registered {
		clerk, _ := c.frontDesk.GetClerk(id)
		if res := clerk.SetConsul(c); !res.IsSuccess() {
			c.log.Warnf("Clerk %s rejected consul: %s", id, res.Code.Message())
		}
		if res := clerk.Start(); !res.IsSuccess() {
			c.log.Warnf("Clerk %s failed to start: %s", id, res.Code.Message())
		}
	}

	c.log.WithFields(logrus.Fields{
		"ambassadors": len(ambassadors.Registered),
		"clerks":      len(clerks.Registered),
	}).Info("Rediscovery finished")
	return result.OK()
}

// Started reports whether Start has succeeded without a matching Stop.
func (c *Consul) Started() bool {
	return c.started.Load()
}

// ProcessRequest accepts a request submitted by a clerk. The request is
// checked and logged; it is not forwarded.
func (c *Consul) ProcessRequest(route *plugin.RouteInfo, data string) result.Result {
	if route == nil || strings.TrimSpace(data) == "" {
		return result.New(result.InvalidArgument)
	}
	if !c.Started() {
		return result.New(result.NotInitialized)
	}

	c.log.WithFields(logrus.Fields{
		"stages": route.Len(),
		"bytes":  len(data),
	}).Debug("Accepted request")
	return result.OK()
}

// Dispatch returns the ambassador facade.
func (c *Consul) Dispatch() *dispatch.Dispatch {
	return c.dispatch
}

// FrontDesk returns the clerk facade.
func (c *Consul) FrontDesk() *frontdesk.FrontDesk {
	return c.frontDesk
}
