package consul

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleRediscovery runs c.Rediscover on spec, a standard five-field cron
// expression or a descriptor such as "@every 5m". Each run is bounded by
// timeout when it is positive. Runs that overlap a previous one are skipped.
// The returned scheduler is already started.
func ScheduleRediscovery(c *Consul, spec string, timeout time.Duration) (*cron.Cron, error) {
	logger := cron.PrintfLogger(c.log)
	scheduler := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	_, err := scheduler.AddFunc(spec, func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.log.Debug("Running scheduled plugin rediscovery")
		if res := c.Rediscover(ctx); !res.IsSuccess() {
			c.log.Warnf("Scheduled rediscovery skipped: %s", res.Code.Message())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rediscovery %q: %w", spec, err)
	}

	scheduler.Start()
	c.log.Infof("Plugin rediscovery scheduled: %s", spec)
	return scheduler, nil
}
