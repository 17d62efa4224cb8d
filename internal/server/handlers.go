package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/engine"
	"github.com/pantryops/aisleflow/internal/model"
)

type organizeRequest struct {
	Store string   `json:"store"`
	Zip   string   `json:"zip"`
	Items []string `json:"items"`
}

type organizeResponse struct {
	Store  string        `json:"store,omitempty"`
	Zip    string        `json:"zip,omitempty"`
	Groups []model.Group `json:"groups"`
}

type storeResponse struct {
	Name       string `json:"name"`
	Chain      string `json:"chain,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type layoutResponse struct {
	Store string         `json:"store"`
	Zip   string         `json:"zip,omitempty"`
	Zones []zoneResponse `json:"zones"`
}

type zoneResponse struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleOrganize(w http.ResponseWriter, r *http.Request) {
	var req organizeRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Items == nil {
		s.respondError(w, http.StatusBadRequest, "items is required")
		return
	}

	ctx := r.Context()
	lay := s.resolver.Resolve(ctx, req.Store, req.Zip)

	cfg := engine.Config{
		Metrics: s.metrics,
		Logger:  s.logger,
	}
	if s.storage != nil {
		cfg.Cache = s.storage
	}
	// Re-check fallback availability on every request so credential
	// changes apply without a restart.
	if s.fallback != nil {
		cfg.Fallback = s.fallback()
	}

	groups, err := engine.New(s.rules, cfg).Organize(ctx, lay, req.Items)
	if err != nil {
		s.logger.Error("organize failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "organize failed")
		return
	}

	s.respondJSON(w, http.StatusOK, organizeResponse{
		Store:  lay.StoreName,
		Zip:    lay.PostalCode,
		Groups: groups,
	})
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	zip := strings.TrimSpace(r.URL.Query().Get("zip"))

	if s.storage == nil {
		s.respondError(w, http.StatusNotFound, "no store registry configured")
		return
	}

	store, err := s.storage.GetStore(r.Context(), name, zip)
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "store not found")
		return
	}
	if err != nil {
		s.logger.Error("store lookup failed", "store", name, "error", err)
		s.respondError(w, http.StatusInternalServerError, "store lookup failed")
		return
	}

	s.respondJSON(w, http.StatusOK, storeResponse{
		Name:       store.Name,
		Chain:      store.Chain,
		City:       store.City,
		State:      store.State,
		PostalCode: store.PostalCode,
	})
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	layouts := []model.StoreLayout{}
	if s.storage != nil {
		var err error
		layouts, err = s.storage.ListLayouts(r.Context())
		if err != nil {
			s.logger.Error("layout listing failed", "error", err)
			s.respondError(w, http.StatusInternalServerError, "layout listing failed")
			return
		}
	}

	out := make([]layoutResponse, 0, len(layouts))
	for _, lay := range layouts {
		zones := make([]zoneResponse, 0, len(lay.Zones))
		for _, z := range lay.Zones {
			cats := make([]string, 0, len(z.Categories))
			for _, c := range z.Categories {
				cats = append(cats, string(c))
			}
			zones = append(zones, zoneResponse{Name: z.Name, Categories: cats})
		}
		out = append(out, layoutResponse{
			Store: lay.StoreName,
			Zip:   lay.PostalCode,
			Zones: zones,
		})
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}
