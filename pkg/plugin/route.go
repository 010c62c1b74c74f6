package plugin

// RouteInfo is an ordered queue of stages a request is meant to pass
// through. It is a data contract only; nothing in this module consumes it.
type RouteInfo struct {
	stages []RouteStage
}

// NewRouteInfo creates a route from stages, in order.
func NewRouteInfo(stages ...RouteStage) *RouteInfo {
	r := &RouteInfo{}
	for _, s := range stages {
		r.AddStage(s)
	}
	return r
}

// AddStage enqueues a stage at the back of the route.
func (r *RouteInfo) AddStage(stage RouteStage) {
	r.stages = append(r.stages, stage)
}

// Next dequeues the stage at the front of the route.
func (r *RouteInfo) Next() (RouteStage, bool) {
	if len(r.stages) == 0 {
		return RouteStage{}, false
	}
	s := r.stages[0]
	r.stages = r.stages[1:]
	return s, true
}

// Peek returns the stage at the front without removing it.
func (r *RouteInfo) Peek() (RouteStage, bool) {
	if len(r.stages) == 0 {
		return RouteStage{}, false
	}
	return r.stages[0], true
}

// Len returns the number of queued stages.
func (r *RouteInfo) Len() int {
	return len(r.stages)
}

// Stages returns a copy of the queued stages, front first.
func (r *RouteInfo) Stages() []RouteStage {
	out := make([]RouteStage, len(r.stages))
	copy(out, r.stages)
	return out
}

// RouteStage names a target plugin and the action it should perform.
// The zero value has empty ID and Action.
type RouteStage struct {
	ID     string `json:"id" yaml:"id"`
	Action string `json:"action" yaml:"action"`
}
