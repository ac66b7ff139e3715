package feed

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
	r.HandleFunc("/home", common.RequireAuth(h.Home)).Methods(http.MethodGet)
	r.HandleFunc("/usertweets/{handle}/{mode}", h.UserTweets).Methods(http.MethodGet)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Home(r.Context(), common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UserTweets(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.svc.Profile(r.Context(), vars["handle"], vars["mode"], common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}
