package notif

import (
	"net/http"

	"github.com/gorilla/mux"

	"gotwitter/internal/common"
)

type NotificationHandler struct {
	inbox InboxService
}

func NewNotificationHandler(inbox InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/notifications", common.RequireAuth(h.List)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/mentions", common.RequireAuth(h.Mentions)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/count", common.RequireAuth(h.Count)).Methods(http.MethodGet)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *NotificationHandler) Mentions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, mentionsOnly bool) {
	listing, err := h.inbox.List(r.Context(), common.Viewer(r.Context()), mentionsOnly, common.PageToken(r))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}

type countResponse struct {
	Unread int64 `json:"unread"`
}

func (h *NotificationHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.inbox.UnreadCount(r.Context(), common.Viewer(r.Context()))
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, countResponse{Unread: n})
}
