package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

func newPluginsCommand() *Command {
	cmd := &Command{
		Name:        "plugins",
		Description: "Plugin inspection commands",
		Subcommands: make(map[string]*Command),
	}
	cmd.Subcommands["list"] = newPluginsListCommand()
	return cmd
}

func newPluginsListCommand() *Command {
	return &Command{
		Name:        "list",
		Description: "List the plugins that would be registered",
		Run:         runPluginsList,
	}
}

type listedPlugin struct {
	ID         string            `json:"id"`
	Capability plugin.Capability `json:"capability"`
	Actions    []string          `json:"actions,omitempty"`
}

func runPluginsList(args []string) error {
	flags := flag.NewFlagSet("plugins list", flag.ContinueOnError)
	var hf hostFlags
	hf.register(flags)
	outputJSON := flags.Bool("json", false, "Output in JSON format")

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
	host.Dispatch().Load(ctx)
	host.FrontDesk().Load(ctx)

	var listed []listedPlugin
	for _, id := range host.Dispatch().Registry().IDs() {
		amb, _ := host.Dispatch().GetAmbassador(id)
		listed = append(listed, listedPlugin{ID: id, Capability: plugin.CapabilityAmbassador, Actions: amb.SupportedActions()})
	}
	for _, id := range host.FrontDesk().Registry().IDs() {
		listed = append(listed, listedPlugin{ID: id, Capability: plugin.CapabilityClerk})
	}

	if *outputJSON {
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	}

	if len(listed) == 0 {
		fmt.Fprintln(output, "No plugins found")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CAPABILITY\tID\tACTIONS")
	for _, p := range listed {
		fmt.Fprintf(w, "%s\t%s\t%v\n", p.Capability, p.ID, p.Actions)
	}
	return w.Flush()
}
