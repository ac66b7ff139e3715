package notif

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gotwitter/internal/common"
)

type MockInboxService struct {
	mock.Mock
}

func (m *MockInboxService) List(ctx context.Context, viewer uint64, mentionsOnly bool, token string) (*common.Listing[NotificationCard], error) {
	args := m.Called(ctx, viewer, mentionsOnly, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*common.Listing[NotificationCard]), args.Error(1)
}

func (m *MockInboxService) UnreadCount(ctx context.Context, viewer uint64) (int64, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).(int64), args.Error(1)
}

func serve(h *NotificationHandler, req *http.Request) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request, viewer uint64) *http.Request {
	return req.WithContext(common.WithViewer(req.Context(), viewer, "alice"))
}

func TestNotificationHandler_List(t *testing.T) {
	page := common.Page{Number: 2, Pages: 2, Count: 11}
	tests := []struct {
		name     string
		path     string
		viewer   uint64
		setup    func(m *MockInboxService)
		wantCode int
	}{
		{
			name:   "all kinds",
			path:   "/notifications?page=2",
			viewer: 7,
			setup: func(m *MockInboxService) {
				m.On("List", mock.Anything, uint64(7), false, "2").
					Return(common.NewListing([]NotificationCard{{ID: 1, Kind: common.NotifyLike}}, page), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "mentions only",
			path:   "/notifications/mentions",
			viewer: 7,
			setup: func(m *MockInboxService) {
				m.On("List", mock.Anything, uint64(7), true, "").
					Return(common.NewListing([]NotificationCard{}, common.Page{Number: 1, Pages: 1}), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "anonymous",
			path:     "/notifications",
			setup:    func(m *MockInboxService) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "store failure",
			path:   "/notifications",
			viewer: 7,
			setup: func(m *MockInboxService) {
				m.On("List", mock.Anything, uint64(7), false, "").Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockInboxService)
			tc.setup(svc)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.viewer != 0 {
				req = authed(req, tc.viewer)
			}
			rec := serve(NewNotificationHandler(svc), req)

			assert.Equal(t, tc.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestNotificationHandler_ListBody(t *testing.T) {
	svc := new(MockInboxService)
	postID := uint64(3)
	svc.On("List", mock.Anything, uint64(7), false, "").Return(common.NewListing([]NotificationCard{
		{ID: 1, Kind: common.NotifyReply, Actor: common.UserSummary{ID: 2, Handle: "bob"}, PostID: &postID},
	}, common.Page{Number: 1, Pages: 1, Count: 1}), nil)

	rec := serve(NewNotificationHandler(svc), authed(httptest.NewRequest(http.MethodGet, "/notifications", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int `json:"count"`
		Results []struct {
			Kind   string `json:"kind"`
			PostID uint64 `json:"post_id"`
			Actor  struct {
				Handle string `json:"handle"`
			} `json:"actor"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "REPLY", body.Results[0].Kind)
	assert.Equal(t, uint64(3), body.Results[0].PostID)
	assert.Equal(t, "bob", body.Results[0].Actor.Handle)
}

func TestNotificationHandler_Count(t *testing.T) {
	svc := new(MockInboxService)
	svc.On("UnreadCount", mock.Anything, uint64(7)).Return(int64(4), nil)

	rec := serve(NewNotificationHandler(svc), authed(httptest.NewRequest(http.MethodGet, "/notifications/count", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":4}`, rec.Body.String())
}
