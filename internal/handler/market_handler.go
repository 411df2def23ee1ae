package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fsanano/marketplace/internal/model"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.svc.ListUsers)
}

// CreateUser ignores unknown body fields, role included.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, w, r, false, h.svc.CreateUser)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, h.svc.GetUser)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, false, h.svc.UpdateUser)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, w, r, h.svc.DeleteUser)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.svc.ListOrders)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, w, r, true, h.svc.CreateOrder)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, h.svc.GetOrder)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, true, h.svc.UpdateOrder)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, w, r, h.svc.DeleteOrder)
}

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.svc.ListOffers)
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, w, r, true, h.svc.CreateOffer)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, h.svc.GetOffer)
}

func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, true, h.svc.UpdateOffer)
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, w, r, h.svc.DeleteOffer)
}

func serveList[T any](h *Handler, w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	items, err := list(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func serveCreate[P, T any](h *Handler, w http.ResponseWriter, r *http.Request, strict bool, create func(context.Context, P) (T, error)) {
	var payload P
	if err := decodeBody(r, &payload, strict); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := create(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func serveGet[T any](h *Handler, w http.ResponseWriter, r *http.Request, get func(context.Context, int) (T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func serveUpdate[P, T any](h *Handler, w http.ResponseWriter, r *http.Request, strict bool, update func(context.Context, int, P) (T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload P
	if err := decodeBody(r, &payload, strict); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := update(r.Context(), id, payload); err != nil {
		h.fail(w, r, err)
		return
	}
	writeFragment(w, UpdatedFragment)
}

func serveDelete(h *Handler, w http.ResponseWriter, r *http.Request, del func(context.Context, int) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeFragment(w, DeletedFragment)
}

// fail renders the not-found fragment for a missing row and a 500 for
// anything else.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrNotFound) {
		writeFragment(w, NotFoundFragment)
		return
	}
	h.log.WithError(err).WithField("url", r.URL.String()).Error("store request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func decodeBody(r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(dst)
}

// pathID reads the uid segment. The route only admits digits, so the only
// failure left is an id too large for int, which cannot exist in the store.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "uid"))
	if err != nil {
		writeFragment(w, NotFoundFragment)
		return 0, false
	}
	return id, true
}
