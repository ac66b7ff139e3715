package media

import (
	"net/http"

	"github.com/gorilla/mux"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
)

// HTTPServer is the standalone media server. It only streams blobs.
type HTTPServer struct {
	router *mux.Router
}

func NewHTTPServer(store common.BlobStore, cfg *config.Config) *HTTPServer {
	h := NewHandler(store, cfg)
	router := mux.NewRouter()
	router.HandleFunc("/media/{ref}", h.Serve).Methods(http.MethodGet)
	router.HandleFunc("/health", health).Methods(http.MethodGet)
	return &HTTPServer{router: router}
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func health(w http.ResponseWriter, r *http.Request) {
	common.WriteMessage(w, http.StatusOK, "media server is healthy")
}
