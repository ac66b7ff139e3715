package tweet

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
	r.HandleFunc("/tweet", common.RequireAuth(h.CreateTweet)).Methods(http.MethodPost)
	r.HandleFunc("/tweet/{id:[0-9]+}", h.GetThread).Methods(http.MethodGet)
	r.HandleFunc("/tweet/{id:[0-9]+}", common.RequireAuth(h.DeleteTweet)).Methods(http.MethodDelete)
	r.HandleFunc("/reply", common.RequireAuth(h.CreateReply)).Methods(http.MethodPost)
	r.HandleFunc("/quote", common.RequireAuth(h.CreateQuote)).Methods(http.MethodPost)
	r.HandleFunc("/retweet", common.RequireAuth(h.Retweet)).Methods(http.MethodPost)
	r.HandleFunc("/retweet/{id:[0-9]+}", common.RequireAuth(h.Unretweet)).Methods(http.MethodDelete)
	r.HandleFunc("/like", common.RequireAuth(h.Like)).Methods(http.MethodPost)
	r.HandleFunc("/like/{id:[0-9]+}", common.RequireAuth(h.Unlike)).Methods(http.MethodDelete)
}

func (h *Handler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Post(r.Context(), common.Viewer(r.Context()), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, common.CreatedResponse{Message: "Tweet created", ID: id})
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req TargetPostRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Reply(r.Context(), common.Viewer(r.Context()), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, common.CreatedResponse{Message: "Reply created", ID: id})
}

func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req TargetPostRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Quote(r.Context(), common.Viewer(r.Context()), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, common.CreatedResponse{Message: "Quote created", ID: id})
}

// decodeTarget reads {"id": n} bodies.
func decodeTarget(r *http.Request) (uint64, error) {
	var req TargetRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		return 0, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return 0, common.InvalidArgument(err.Error())
	}
	return req.ID, nil
}

func (h *Handler) Retweet(w http.ResponseWriter, r *http.Request) {
	postID, err := decodeTarget(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Retweet(r.Context(), common.Viewer(r.Context()), postID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, common.CreatedResponse{Message: "Retweeted", ID: id})
}

func (h *Handler) Unretweet(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	if err := h.svc.Unretweet(r.Context(), common.Viewer(r.Context()), postID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteMessage(w, http.StatusOK, "Retweet removed")
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	postID, err := decodeTarget(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	if err := h.svc.Like(r.Context(), common.Viewer(r.Context()), postID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteMessage(w, http.StatusCreated, "Liked")
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	if err := h.svc.Unlike(r.Context(), common.Viewer(r.Context()), postID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteMessage(w, http.StatusOK, "Like removed")
}

func (h *Handler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	viewer := common.Viewer(r.Context())
	if err := h.svc.Delete(r.Context(), viewer, postID); err != nil {
		common.WriteError(w, r, err)
		return
	}
	log.WithFields(log.Fields{"post": postID, "actor": viewer}).Info("tweet deleted")
	common.WriteMessage(w, http.StatusOK, "Tweet deleted")
}

// GetThread is public; viewer flags are false for anonymous callers.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	postID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	view, err := h.svc.Thread(r.Context(), postID, common.Viewer(r.Context()), common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}
