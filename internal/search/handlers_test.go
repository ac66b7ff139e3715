package search

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"gotwitter/internal/common"
	"gotwitter/internal/tweet"
	"gotwitter/internal/user"
)

func newRouter(svc Service, viewer uint64) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if viewer != 0 {
				req = req.WithContext(common.WithViewer(req.Context(), viewer, "alice"))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestHandler(t *testing.T) {
	tweets := common.NewListing([]tweet.Card{{ID: 7, Content: "go gophers"}}, common.Page{Number: 1, Pages: 1, Count: 1})

	tests := []struct {
		name       string
		viewer     uint64
		path       string
		setup      func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "top", path: "/search/top?query=go+gophers",
			setup: func(m *MockService) {
				m.EXPECT().Top(gomock.Any(), "go gophers", uint64(0), "").Return(tweets, nil)
			},
			wantStatus: http.StatusOK, wantBody: `"content":"go gophers"`,
		},
		{
			name: "latest with page", viewer: 3, path: "/search/latest?query=go&page=2",
			setup: func(m *MockService) {
				m.EXPECT().Latest(gomock.Any(), "go", uint64(3), "2").Return(tweets, nil)
			},
			wantStatus: http.StatusOK, wantBody: `"num_pages":1`,
		},
		{
			name: "people", viewer: 3, path: "/search/people?query=gopher",
			setup: func(m *MockService) {
				m.EXPECT().People(gomock.Any(), "gopher", uint64(3), "").
					Return(common.NewListing([]user.Card{{Handle: "gopher", IFollow: true}}, common.Page{Number: 1, Pages: 1, Count: 1}), nil)
			},
			wantStatus: http.StatusOK, wantBody: `"i_follow":true`,
		},
		{
			name: "missing query", path: "/search/top",
			wantStatus: http.StatusBadRequest, wantBody: "no query provided",
		},
		{
			name: "missing query on people", path: "/search/people?page=2",
			wantStatus: http.StatusBadRequest, wantBody: "no query provided",
		},
		{
			name: "blank query", path: "/search/latest?query=+++",
			setup: func(m *MockService) {
				m.EXPECT().Latest(gomock.Any(), "   ", uint64(0), "").
					Return(common.NewListing[tweet.Card](nil, common.Page{Number: 1, Pages: 1}), nil)
			},
			wantStatus: http.StatusOK, wantBody: `"results":[]`,
		},
		{
			name: "empty query", path: "/search/top?query=",
			setup: func(m *MockService) {
				m.EXPECT().Top(gomock.Any(), "", uint64(0), "").
					Return(common.NewListing[tweet.Card](nil, common.Page{Number: 1, Pages: 1}), nil)
			},
			wantStatus: http.StatusOK, wantBody: `"results":[]`,
		},
		{
			name: "unknown tab", path: "/search/media?query=go",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockService(gomock.NewController(t))
			if tt.setup != nil {
				tt.setup(svc)
			}
			rec := httptest.NewRecorder()
			newRouter(svc, tt.viewer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
