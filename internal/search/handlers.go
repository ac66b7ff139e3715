package search

import (
	"net/http"

	"github.com/gorilla/mux"

	"gotwitter/internal/common"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/search/top", h.Top).Methods(http.MethodGet)
	r.HandleFunc("/search/latest", h.Latest).Methods(http.MethodGet)
	r.HandleFunc("/search/people", h.People).Methods(http.MethodGet)
}

// queryParam rejects requests without a query parameter. A present but blank
// query is passed through and matches nothing.
func queryParam(r *http.Request) (string, error) {
	values := r.URL.Query()
	if !values.Has("query") {
		return "", common.InvalidArgument("no query provided")
	}
	return values.Get("query"), nil
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	listing, err := h.svc.Top(r.Context(), query, common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	listing, err := h.svc.Latest(r.Context(), query, common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) People(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	listing, err := h.svc.People(r.Context(), query, common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}
