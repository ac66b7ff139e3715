package user

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/user/{handle}", h.Profile).Methods(http.MethodGet)
	r.HandleFunc("/follow", common.RequireAuth(h.Follow)).Methods(http.MethodPost)
	r.HandleFunc("/follow/{handle}", common.RequireAuth(h.Unfollow)).Methods(http.MethodDelete)
	r.HandleFunc("/follow_list/{handle}/{kind:follower|following}", h.FollowList).Methods(http.MethodGet)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	resp, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Profile(r.Context(), mux.Vars(r)["handle"], common.Viewer(r.Context()))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, r, common.InvalidArgument(err.Error()))
		return
	}

	viewer := common.Viewer(r.Context())
	if err := h.svc.Follow(r.Context(), viewer, req.UserID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	log.WithFields(log.Fields{"follower": viewer, "following": req.UserID}).Info("followed")
	common.WriteMessage(w, http.StatusCreated, "Followed")
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unfollow(r.Context(), common.Viewer(r.Context()), mux.Vars(r)["handle"]); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteMessage(w, http.StatusOK, "Unfollowed")
}

func (h *Handler) FollowList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.svc.FollowList(r.Context(), vars["handle"], vars["kind"] == "follower", common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, list)
}
