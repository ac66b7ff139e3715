package common

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
}

func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func WriteMessage(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, MessageResponse{Message: message})
}

// HTTPStatus maps the status code of a domain error onto HTTP.
func HTTPStatus(err error) int {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WriteError renders a domain error. Anything that is not a known status
// is logged and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := HTTPStatus(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		WriteMessage(w, code, "internal server error")
		return
	}
	WriteMessage(w, code, status.Convert(err).Message())
}

// DecodeJSON reads a request body into dst. An empty body decodes as zero value.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return status.Error(codes.InvalidArgument, "malformed JSON body")
}

// PathID parses a numeric route variable.
func PathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s", name)
	}
	return id, nil
}

// Domain error constructors, so callers read as intent rather than codes.

func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

func NotFound(msg string) error {
	return status.Error(codes.NotFound, msg)
}

func Forbidden(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}

func Conflict(msg string) error {
	return status.Error(codes.AlreadyExists, msg)
}

func Unauthenticated(msg string) error {
	return status.Error(codes.Unauthenticated, msg)
}

// NotFoundIf turns gorm.ErrRecordNotFound into a NotFound status and passes other errors through.
func NotFoundIf(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msg)
	}
	return err
}
