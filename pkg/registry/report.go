package registry

import (
	"time"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

// LoadReport describes one discovery pass.
type LoadReport struct {
	// ID identifies the pass in logs and spans.
	ID         string
	Discovered int
	Registered []string
	Rejected   []Rejection
	// LostRaces lists identities that passed validation but were
	// registered by a concurrent Load before this pass could insert them.
	LostRaces []string
	Duration  time.Duration
}

// RejectedCode returns the code the candidate with the given identity was
// rejected with, if it was rejected.
func (r *LoadReport) RejectedCode(id string) (result.Code, bool) {
	for _, rej := range r.Rejected {
		if rej.ID == id {
			return rej.Code, true
		}
	}
	return result.Success, false
}

// Rejection records a candidate that did not pass validation.
type Rejection struct {
	ID         string
	ProviderID string
	Code       result.Code
}

// LifecycleReport holds the per-plugin outcomes of StartAll or StopAll.
type LifecycleReport struct {
	Operation string
	Outcomes  []Outcome
}

// Failed returns the outcomes that were not Success.
func (r *LifecycleReport) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Result.IsSuccess() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Outcome is a single plugin's lifecycle outcome.
type Outcome struct {
	ID     string
	Result result.Result
}
