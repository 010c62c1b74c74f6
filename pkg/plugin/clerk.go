package plugin

import (
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Clerk is the routing-consumer capability. A clerk is handed the request
// sink it submits work to.
type Clerk interface {
	Plugin
	SetConsul(consul ConsulRequest) result.Result
}

// ConsulRequest accepts routed requests from clerks.
type ConsulRequest interface {
	ProcessRequest(route *RouteInfo, data string) result.Result
}
