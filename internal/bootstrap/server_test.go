package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/routes"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/Domenick1991/flightroutes/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

type MockRouteUseCase struct {
	mock.Mock
}

func (m *MockRouteUseCase) Search(ctx context.Context, input routes.SearchInput) (*domain.RoutePage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoutePage), args.Error(1)
}

func (m *MockRouteUseCase) Detail(ctx context.Context, id int64, aircraft string) (*routes.RouteDetailView, error) {
	args := m.Called(ctx, id, aircraft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routes.RouteDetailView), args.Error(1)
}

func (m *MockRouteUseCase) Airlines(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockRouteUseCase) Aircraft(ctx context.Context) ([]domain.Aircraft, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Aircraft), args.Error(1)
}

func newTestRouter(service routes.RouteUseCase, store Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	return NewRouter(&config.Config{}, Deps{
		Routes:   service,
		Store:    store,
		Log:      logger.NewNop(),
		Metrics:  metrics.NewMetrics("test", reg),
		Gatherer: reg,
	})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(&MockRouteUseCase{}, fakePinger{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_HealthzStoreDown(t *testing.T) {
	router := newTestRouter(&MockRouteUseCase{}, fakePinger{err: errors.New("dial tcp: connection refused")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RoutesAndMetrics(t *testing.T) {
	service := &MockRouteUseCase{}
	router := newTestRouter(service, fakePinger{})

	service.On("Search", mock.Anything, routes.SearchInput{Page: 1}).
		Return(&domain.RoutePage{Data: []domain.RouteSummary{}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/routes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{route="/api/routes",status="200"} 1`)

	service.AssertExpectations(t)
}

func TestRouter_NoDocsWithoutSwaggerDir(t *testing.T) {
	router := newTestRouter(&MockRouteUseCase{}, fakePinger{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/docs/index.html", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
