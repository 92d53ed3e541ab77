package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/services"
)

// resourceHandler serves one vault resource type. Cards, credentials and
// notes all go through this single implementation; only the validator and
// the underlying service differ.
type resourceHandler[T models.VaultItem, V any] struct {
	server    *Server
	svc       *services.VaultService[T, V]
	validate  func(in V) error
	kind      string
	kindTitle string
}

// registerResource mounts the four resource routes behind the auth
// middleware. A free function because methods cannot carry type parameters.
func registerResource[T models.VaultItem, V any](s *Server, prefix string, svc *services.VaultService[T, V], validate func(in V) error) {
	kind := svc.Kind()
	h := &resourceHandler[T, V]{
		server:    s,
		svc:       svc,
		validate:  validate,
		kind:      kind,
		kindTitle: strings.ToUpper(kind[:1]) + kind[1:],
	}

	s.mux.Handle("POST "+prefix, s.requireAuth(http.HandlerFunc(h.create)))
	s.mux.Handle("GET "+prefix, s.requireAuth(http.HandlerFunc(h.list)))
	s.mux.Handle("GET "+prefix+"/{id}", s.requireAuth(http.HandlerFunc(h.get)))
	s.mux.Handle("DELETE "+prefix+"/{id}", s.requireAuth(http.HandlerFunc(h.delete)))
}

func (h *resourceHandler[T, V]) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
		return
	}

	var in V
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validate(in); err != nil {
		writeServiceError(w, err, h.kind, h.kindTitle)
		return
	}

	msg, err := h.svc.Create(r.Context(), identity.ID, in)
	if err != nil {
		h.server.logger.Error(r.Context(), err.Error(), "kind", h.kind)
		writeServiceError(w, err, h.kind, h.kindTitle)
		return
	}

	writeMessage(w, http.StatusCreated, msg)
}

func (h *resourceHandler[T, V]) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
		return
	}

	entries, err := h.svc.List(r.Context(), identity.ID)
	if err != nil {
		h.server.logger.Error(r.Context(), err.Error(), "kind", h.kind)
		writeServiceError(w, err, h.kind, h.kindTitle)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *resourceHandler[T, V]) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
		return
	}

	view, err := h.svc.Get(r.Context(), r.PathValue("id"), identity.ID)
	if err != nil {
		writeServiceError(w, err, h.kind, h.kindTitle)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *resourceHandler[T, V]) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
		return
	}

	msg, err := h.svc.Delete(r.Context(), r.PathValue("id"), identity.ID)
	if err != nil {
		writeServiceError(w, err, h.kind, h.kindTitle)
		return
	}

	writeMessage(w, http.StatusOK, msg)
}
