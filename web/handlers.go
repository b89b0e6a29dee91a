package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/esmc/chaos/app"
	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/envelope"
	"github.com/esmc/chaos/domain/pathnorm"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds invoke request bodies; the processor enforces its own
// payload bound after decoding.
const maxBodyBytes = 2 << 20

type healthResponse struct {
	Status     string `json:"status"`
	Components int    `json:"components"`
	Fleet      string `json:"fleet"` // fleet fingerprint, stable per generation spec
	Uptime     string `json:"uptime"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Components: h.registry.Size(),
		Fleet:      h.registry.Fingerprint(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	})
}

type componentView struct {
	component.Component
	Path string `json:"path"`
}

func viewOf(c component.Component) componentView {
	return componentView{
		Component: c,
		Path:      pathnorm.Join(string(c.Kind), c.Name),
	}
}

func (h *Handler) handleListComponents(w http.ResponseWriter, r *http.Request) {
	kind := component.Kind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown_kind", "kind must be one of hash, path, processor, colonel, intelligence")
		return
	}

	fleet := h.registry.List(kind)
	views := make([]componentView, 0, len(fleet))
	for _, c := range fleet {
		views = append(views, viewOf(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"components": views,
		"count":      len(views),
	})
}

func (h *Handler) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := h.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "component_not_found", name)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *Handler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	op := chi.URLParam(r, "op")

	var param any
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable_body", err.Error())
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &param); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON value")
			return
		}
	}

	result, err := h.invoker.Invoke(r.Context(), name, op, param)
	switch {
	case errors.Is(err, app.ErrComponentNotFound), errors.Is(err, app.ErrOpNotFound):
		writeError(w, http.StatusNotFound, "unknown_target", err.Error())
		return
	case err != nil:
		h.logger.Error().Err(err).Str("component", name).Str("op", op).Msg("invoke failed")
		writeError(w, http.StatusInternalServerError, "internal", "invocation failed")
		return
	}

	status := http.StatusOK
	if result.Status == envelope.StatusError {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) handleDeploy(w http.ResponseWriter, r *http.Request) {
	result, err := h.deployer.Deploy(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("deploy failed")
		writeError(w, http.StatusInternalServerError, "deploy_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMeshStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.mesh.Status(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("mesh status failed")
		writeError(w, http.StatusInternalServerError, "mesh_failed", "could not aggregate mesh status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleRecentInvocations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be 1-1000")
			return
		}
		limit = n
	}

	invs, err := h.invoker.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("invocation query failed")
		writeError(w, http.StatusInternalServerError, "internal", "could not read invocation log")
		return
	}

	type invocationView struct {
		ID        string    `json:"id"`
		Component string    `json:"component"`
		Op        string    `json:"op"`
		Status    string    `json:"status"`
		Digest    string    `json:"digest,omitempty"`
		Duration  int64     `json:"duration_us"`
		CreatedAt time.Time `json:"created_at"`
	}
	views := make([]invocationView, 0, len(invs))
	for _, inv := range invs {
		views = append(views, invocationView{
			ID:        inv.ID,
			Component: inv.Component,
			Op:        inv.Op,
			Status:    inv.Status,
			Digest:    inv.Digest,
			Duration:  inv.Duration.Microseconds(),
			CreatedAt: inv.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invocations": views,
		"count":       len(views),
	})
}
