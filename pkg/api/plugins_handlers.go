package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/diplomacy/pkg/consul"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// PluginInfo describes one registered plugin
type PluginInfo struct {
	ID               string            `json:"id"`
	Capability       plugin.Capability `json:"capability"`
	SupportedActions []string          `json:"supported_actions,omitempty"`
}

// PluginList is the response of GET /plugins
type PluginList struct {
	Started     bool         `json:"started"`
	Ambassadors []PluginInfo `json:"ambassadors"`
	Clerks      []PluginInfo `json:"clerks"`
}

// PluginHandlers exposes the host's registries read-only
type PluginHandlers struct {
	consul *consul.Consul
}

// NewPluginHandlers creates a new plugin handlers instance
func NewPluginHandlers(c *consul.Consul) *PluginHandlers {
	return &PluginHandlers{consul: c}
}

// RegisterRoutes registers plugin API routes
func (h *PluginHandlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/plugins", h.listPlugins).Methods("GET")
	r.HandleFunc("/plugins/ambassadors/{id}", h.getAmbassador).Methods("GET")
	r.HandleFunc("/plugins/clerks/{id}", h.getClerk).Methods("GET")
}

// listPlugins handles GET /plugins
func (h *PluginHandlers) listPlugins(w http.ResponseWriter, r *http.Request) {
	list := PluginList{
		Started:     h.consul.Started(),
		Ambassadors: []PluginInfo{},
		Clerks:      []PluginInfo{},
	}

	ambassadors := h.consul.Dispatch()
	for _, id := range ambassadors.Registry().IDs() {
		if amb, ok := ambassadors.GetAmbassador(id); ok {
			list.Ambassadors = append(list.Ambassadors, ambassadorInfo(amb))
		}
	}
	for _, id := range h.consul.FrontDesk().Registry().IDs() {
		list.Clerks = append(list.Clerks, PluginInfo{ID: id, Capability: plugin.CapabilityClerk})
	}

	respondJSON(w, http.StatusOK, list)
}

// getAmbassador handles GET /plugins/ambassadors/{id}
func (h *PluginHandlers) getAmbassador(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	amb, ok := h.consul.Dispatch().GetAmbassador(id)
	if !ok {
		writeError(w, http.StatusNotFound, "ambassador not found: "+id)
		return
	}

	respondJSON(w, http.StatusOK, ambassadorInfo(amb))
}

// getClerk handles GET /plugins/clerks/{id}
func (h *PluginHandlers) getClerk(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, ok := h.consul.FrontDesk().GetClerk(id); !ok {
		writeError(w, http.StatusNotFound, "clerk not found: "+id)
		return
	}

	respondJSON(w, http.StatusOK, PluginInfo{ID: id, Capability: plugin.CapabilityClerk})
}

func ambassadorInfo(amb plugin.Ambassador) PluginInfo {
	return PluginInfo{
		ID:               amb.ID(),
		Capability:       plugin.CapabilityAmbassador,
		SupportedActions: amb.SupportedActions(),
	}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
