package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"realty/internal/app"
	"realty/internal/domain"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Password)
	if errors.Is(err, app.ErrBadCredentials) {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid password")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), bearer(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var f app.PropertyForm
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := f.ToProperty()
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := h.Catalog.Add(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/properties/"+added.ID.String())
	writeJSON(w, http.StatusCreated, view(added))
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var f app.PropertyForm
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := f.ToProperty()
	if err != nil {
		writeError(w, err)
		return
	}
	// the editor form does not carry feed-owned fields
	updated, matched, err := h.Catalog.Patch(r.Context(), id, func(cur domain.Property) domain.Property {
		p.MLSNumber = cur.MLSNumber
		p.ListingAgent = cur.ListingAgent
		p.Features = cur.Features
		p.DaysOnMarket = cur.DaysOnMarket
		return p
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !matched {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeJSON(w, http.StatusOK, view(updated))
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	removed, err := h.Catalog.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) sync(w http.ResponseWriter, r *http.Request) {
	if h.Ingest == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Sync Unavailable", "no listing feed configured")
		return
	}
	rep, err := h.Ingest.Sync(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin sync failed")
		writeProblem(w, http.StatusBadGateway, "Sync Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
