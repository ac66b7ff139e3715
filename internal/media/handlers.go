package media

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
)

type UploadResponse struct {
	Media string `json:"media"`
}

type Handler struct {
	store    common.BlobStore
	maxBytes int64
}

func NewHandler(store common.BlobStore, cfg *config.Config) *Handler {
	return &Handler{store: store, maxBytes: int64(cfg.Media.MaxUploadMB) << 20}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/media", common.RequireAuth(h.Upload)).Methods(http.MethodPost)
	r.HandleFunc("/media/{ref}", h.Serve).Methods(http.MethodGet)
}

// Upload stores one multipart "file" part and returns its ref for use in a
// later post request.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		common.WriteMessage(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteMessage(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		common.WriteError(w, r, common.InvalidArgument("expected multipart form with a file"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, r, common.InvalidArgument("file is required"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = common.ContentTypeFor(header.Filename)
	}
	if !common.IsAcceptedUpload(mimeType) {
		common.WriteError(w, r, common.InvalidArgument("only images and videos can be attached"))
		return
	}

	ref, err := h.store.Put(r.Context(), header.Filename, mimeType, header.Size, file)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"ref":     ref,
		"backend": h.store.Backend(),
		"size":    header.Size,
		"actor":   common.Viewer(r.Context()),
	}).Info("media uploaded")
	common.WriteJSON(w, http.StatusCreated, UploadResponse{Media: ref})
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	body, info, err := h.store.Get(r.Context(), ref)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = common.ContentTypeFor(info.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		log.WithError(err).WithField("ref", ref).Warn("error streaming file")
	}
}
