package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/config"
	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/service"
)

const testSessionID = "session-1"

type testAPI struct {
	router     *gin.Engine
	auth       *MockAuthService
	orders     *MockOrderService
	delivery   *MockDeliveryService
	inventory  *MockInventoryService
	sessions   *MockRouteSessionService
	statistics *MockStatisticsService
}

func testUser() *model.User {
	user := &model.User{Username: "1", Name: "Juan Pérez", Role: model.DriverRole, IsActive: true}
	user.ID = 1
	return user
}

func newTestAPI(t *testing.T, health HealthCheck) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	a := &testAPI{
		auth:       new(MockAuthService),
		orders:     new(MockOrderService),
		delivery:   new(MockDeliveryService),
		inventory:  new(MockInventoryService),
		sessions:   new(MockRouteSessionService),
		statistics: new(MockStatisticsService),
	}
	a.auth.On("Authenticate", mock.Anything, testSessionID).Return(testUser(), nil).Maybe()

	services := &service.Services{
		Auth:          a.auth,
		Orders:        a.orders,
		Delivery:      a.delivery,
		Inventory:     a.inventory,
		RouteSessions: a.sessions,
		Statistics:    a.statistics,
	}
	session := config.SessionConfig{CookieName: "sid", TTL: time.Hour}

	a.router = gin.New()
	NewHandler(services, session, time.UTC, health).RegisterRoutes(a.router)
	return a
}

func (a *testAPI) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.AddCookie(&http.Cookie{Name: "sid", Value: testSessionID})
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, func(context.Context) error { return nil })
	rec := a.do(http.MethodGet, "/health", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	a = newTestAPI(t, func(context.Context) error { return errors.New("connection refused") })
	rec = a.do(http.MethodGet, "/health", "", false)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.do(http.MethodGet, "/api/orders", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)

	a.auth.On("Authenticate", mock.Anything, "expired").Return(nil, service.ErrUnauthenticated)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired"})
	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	a.orders.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	a := newTestAPI(t, nil)
	a.auth.On("Login", mock.Anything, &service.LoginRequest{Username: "1", Password: "1"}).
		Return(testUser(), &cache.Session{ID: "new-session", UserID: 1}, nil)

	rec := a.do(http.MethodPost, "/api/auth/login", `{"username":"1","password":"1"}`, false)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)
	require.Equal(t, "new-session", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{name: "missing password", body: `{"username":"1"}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "wrong password", body: `{"username":"1","password":"2"}`, err: service.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{name: "inactive", body: `{"username":"1","password":"1"}`, err: service.ErrInactiveUser, status: http.StatusUnauthorized, code: "USER_INACTIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t, nil)
			if tt.err != nil {
				a.auth.On("Login", mock.Anything, mock.Anything).Return(nil, nil, tt.err)
			}

			rec := a.do(http.MethodPost, "/api/auth/login", tt.body, false)

			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	a := newTestAPI(t, nil)
	a.auth.On("Logout", mock.Anything, testSessionID).Return(nil)

	rec := a.do(http.MethodPost, "/api/auth/logout", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestListOrdersFilters(t *testing.T) {
	a := newTestAPI(t, nil)
	driverID := uint(1)
	a.orders.On("List", mock.Anything, repository.OrderFilter{DriverID: &driverID, Status: model.PendingOrderStatus}).
		Return([]*model.Order{{OrderNumber: "ORD-001"}}, nil)

	rec := a.do(http.MethodGet, "/api/orders?driverId=1&status=pending", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
}

func TestListOrdersRejectsBadDriverID(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.do(http.MethodGet, "/api/orders?driverId=abc", "", true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	a.orders.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetOrderNotFound(t *testing.T) {
	a := newTestAPI(t, nil)
	a.orders.On("GetByID", mock.Anything, uint(9)).Return(nil, repository.ErrNotFound)

	rec := a.do(http.MethodGet, "/api/orders/9", "", true)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestCompleteDeliveryErrors(t *testing.T) {
	a := newTestAPI(t, nil)
	a.delivery.On("Complete", mock.Anything, mock.MatchedBy(func(r *service.CompleteDeliveryRequest) bool {
		return r.OrderID == 100
	})).Return(nil, service.ErrInvalidTransition)
	a.delivery.On("Complete", mock.Anything, mock.MatchedBy(func(r *service.CompleteDeliveryRequest) bool {
		return r.OrderID == 101
	})).Return(nil, service.ErrItemNotInOrder)

	rec := a.do(http.MethodPost, "/api/delivery/complete", `{"orderId":100,"items":[{"id":10,"deliveredQuantity":0}]}`, true)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "INVALID_TRANSITION", decodeError(t, rec).Code)

	rec = a.do(http.MethodPost, "/api/delivery/complete", `{"orderId":101,"items":[{"id":99,"deliveredQuantity":1}]}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "ITEM_NOT_IN_ORDER", decodeError(t, rec).Code)

	rec = a.do(http.MethodPost, "/api/delivery/complete", `{"orderId":100,"items":[{"id":10}]}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestStartDelivery(t *testing.T) {
	a := newTestAPI(t, nil)
	order := &model.Order{Status: model.InProgressOrderStatus}
	a.delivery.On("Start", mock.Anything, &service.StartDeliveryRequest{OrderID: 100}).Return(order, nil)

	rec := a.do(http.MethodPost, "/api/delivery/start", `{"orderId":100}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"in_progress"`)
}

func TestInvalidBodyReportsJSONFieldNames(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing field", `{}`, "orderId is required"},
		{"wrong type", `{"orderId":"abc"}`, "invalid value for field orderId"},
		{"malformed", `{"orderId":`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t, nil)

			rec := a.do(http.MethodPost, "/api/delivery/start", tt.body, true)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			require.Equal(t, tt.message, resp.Message)
			require.NotContains(t, resp.Message, "StartDeliveryRequest")
			require.NotContains(t, resp.Message, "OrderID")
			a.delivery.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
		})
	}
}

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	a := newTestAPI(t, nil)
	a.delivery.On("CaptureGPS", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection reset"))

	rec := a.do(http.MethodPost, "/api/delivery/capture-gps", `{"orderId":1,"latitude":-12.04,"longitude":-77.03}`, true)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "pq:")
}

func TestListInventoryRequiresDriver(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.do(http.MethodGet, "/api/inventory", "", true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	a.inventory.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestStartRouteSession(t *testing.T) {
	a := newTestAPI(t, nil)
	a.sessions.On("Start", mock.Anything, mock.MatchedBy(func(r *service.StartSessionRequest) bool {
		return r.RouteID == 3 && r.DriverID == 1
	})).Return(&model.RouteSession{Status: model.ActiveRouteStatus}, nil).Once()
	a.sessions.On("Start", mock.Anything, mock.Anything).Return(nil, service.ErrSessionAlreadyActive)

	body := `{"routeId":3,"driverId":1,"startMileage":1500}`
	rec := a.do(http.MethodPost, "/api/route-sessions/start", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodPost, "/api/route-sessions/start", body, true)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "SESSION_ALREADY_ACTIVE", decodeError(t, rec).Code)
}

func TestEndRouteSessionDefaultsToCurrentDriver(t *testing.T) {
	a := newTestAPI(t, nil)
	a.sessions.On("End", mock.Anything, mock.MatchedBy(func(r *service.EndSessionRequest) bool {
		return r.SessionID == 0 && r.DriverID == 1 && r.EndMileage != nil
	})).Return(&service.EndSessionResult{
		Session: &model.RouteSession{Status: model.CompletedRouteStatus},
		Report:  &model.DailyReport{},
	}, nil)

	rec := a.do(http.MethodPost, "/api/route-sessions/end", `{"endMileage":1620}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Contains(t, result, "session")
	require.Contains(t, result, "report")
}

func TestEndRouteSessionWithoutActiveSession(t *testing.T) {
	a := newTestAPI(t, nil)
	a.sessions.On("End", mock.Anything, mock.Anything).Return(nil, service.ErrSessionNotActive)

	rec := a.do(http.MethodPost, "/api/route-sessions/end", `{"sessionId":4,"endMileage":1620}`, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "SESSION_NOT_ACTIVE", decodeError(t, rec).Code)
}

func TestListDailyReportsParsesDate(t *testing.T) {
	a := newTestAPI(t, nil)
	a.sessions.On("ListReports", mock.Anything, uint(1), mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	})).Return([]*model.DailyReport{}, nil)

	rec := a.do(http.MethodGet, "/api/daily-reports?driverId=1&date=2024-03-04", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/api/daily-reports?driverId=1&date=yesterday", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsDefaultsToToday(t *testing.T) {
	a := newTestAPI(t, nil)
	a.statistics.On("GetOrderStatistics", mock.Anything, uint(1), mock.AnythingOfType("time.Time")).
		Return(&service.OrderStatistics{Date: "2024-03-04", Pending: 2, Total: 2}, nil)

	rec := a.do(http.MethodGet, "/api/statistics?driverId=1", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats service.OrderStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(2), stats.Pending)
}
