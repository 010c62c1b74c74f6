package plugin

import (
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Ambassador is the request-processing capability.
type Ambassador interface {
	Plugin
	// SupportedActions lists the actions the ambassador can process.
	SupportedActions() []string
	Process(data string) result.Result
}
