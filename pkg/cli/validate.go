package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/platinummonkey/diplomacy/pkg/registry"
)

func newValidateCommand() *Command {
	return &Command{
		Name:        "validate",
		Description: "Run discovery and report rejected plugin candidates",
		Run:         runValidate,
	}
}

func runValidate(args []string) error {
	flags := flag.NewFlagSet("validate", flag.ContinueOnError)
	var hf hostFlags
	hf.register(flags)

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := hf.load()
	if err != nil {
		return err
	}

	host, err := newHost(cfg, newLogger(cfg, io.Discard), nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout(cfg.Plugins.DiscoveryTimeout))
	defer cancel()

	_, ambassadors := host.Dispatch().Registry().LoadWithReport(ctx)
	_, clerks := host.FrontDesk().Registry().LoadWithReport(ctx)

	rejected := printReport(host.Dispatch().Registry().Name(), ambassadors) +
		printReport(host.FrontDesk().Registry().Name(), clerks)
	if rejected > 0 {
		return fmt.Errorf("%d plugin candidates rejected", rejected)
	}

	fmt.Fprintln(output, "All plugin candidates are valid")
	return nil
}

func printReport(name string, report *registry.LoadReport) int {
	fmt.Fprintf(output, "%s: %d discovered, %d registered, %d rejected\n",
		name, report.Discovered, len(report.Registered), len(report.Rejected))
	for _, id := range report.Registered {
		fmt.Fprintf(output, "  ✓ %s\n", id)
	}
	for _, rej := range report.Rejected {
		id := rej.ID
		if id == "" {
			id = "<no id>"
		}
		fmt.Fprintf(output, "  ✗ %s (provider %q): %s [%d]\n", id, rej.ProviderID, rej.Code.Message(), rej.Code.Value())
	}
	return len(report.Rejected)
}

// discoveryTimeout treats zero as no practical limit
func discoveryTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
