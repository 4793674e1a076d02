package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/dto"
	"github.com/SscSPs/currency_rates_bot/internal/handlers"
	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/SscSPs/currency_rates_bot/internal/platform/config"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) FetchRate(ctx context.Context, base, target string) (*domain.RateObservation, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateObservation), args.Error(1)
}

func (m *MockRateService) GetLatestRate(ctx context.Context, base, target string) (*domain.RateObservation, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateObservation), args.Error(1)
}

func (m *MockRateService) RecordRate(ctx context.Context, base, target string, value decimal.Decimal) (*domain.RateObservation, error) {
	args := m.Called(ctx, base, target, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateObservation), args.Error(1)
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

// --- Mock SubscriptionService ---
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID, base, target string) (domain.SubscribeStatus, error) {
	args := m.Called(ctx, userID, base, target)
	return args.Get(0).(domain.SubscribeStatus), args.Error(1)
}

func (m *MockSubscriptionService) Unsubscribe(ctx context.Context, userID, base, target string) (domain.UnsubscribeStatus, error) {
	args := m.Called(ctx, userID, base, target)
	return args.Get(0).(domain.UnsubscribeStatus), args.Error(1)
}

func (m *MockSubscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

var _ portssvc.SubscriptionSvcFacade = (*MockSubscriptionService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

type fakeTrigger struct {
	mu     sync.Mutex
	pairs  []domain.Pair
	result bool
	err    error
}

func (f *fakeTrigger) TriggerFetch(pair domain.Pair) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs = append(f.pairs, pair)
	return f.result, f.err
}

type fakeJobs struct {
	statuses []scheduler.Status
}

func (f *fakeJobs) Statuses() []scheduler.Status { return f.statuses }

func (f *fakeJobs) Trigger(name string) (bool, error) {
	for _, st := range f.statuses {
		if st.Name == name {
			return st.State == scheduler.StateIdle, nil
		}
	}
	return false, scheduler.ErrUnknownJob
}

type HandlersTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockRate        *MockRateService
	mockSubscribe   *MockSubscriptionService
	mockUser        *MockUserService
	trigger         *fakeTrigger
	jobs            *fakeJobs
	metrics         *metrics.Metrics
	jwtSecret       string
	healthCheckFail error
}

func (suite *HandlersTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "rates-bot-test",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockRate = new(MockRateService)
	suite.mockSubscribe = new(MockSubscriptionService)
	suite.mockUser = new(MockUserService)
	suite.trigger = &fakeTrigger{result: true}
	suite.jobs = &fakeJobs{statuses: []scheduler.Status{
		{Name: "fetch-rate:EUR/USD", Schedule: "@every 1m", State: scheduler.StateIdle, Runs: 3},
		{Name: "notify-subscribers", Schedule: "@every 1m", State: scheduler.StateRunning},
	}}
	suite.healthCheckFail = nil

	reg := prometheus.NewRegistry()
	suite.metrics = metrics.New(reg)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slogDiscard()))
	handlers.RegisterRoutes(suite.router, &config.Config{APIJWTSecret: suite.jwtSecret}, &portssvc.ServiceContainer{
		Rate:         suite.mockRate,
		Subscription: suite.mockSubscribe,
		User:         suite.mockUser,
	}, handlers.RouteDeps{
		FetchTrigger: suite.trigger,
		Jobs:         suite.jobs,
		Gatherer:     reg,
		HealthChecks: map[string]handlers.HealthCheck{
			"database": func(ctx context.Context) error { return suite.healthCheckFail },
		},
	})
}

func (suite *HandlersTestSuite) do(method, url, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("chat-frontend"))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) TestAuthRequired() {
	w := suite.do(http.MethodGet, "/api/v1/rates/EUR/USD", "", false)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/EUR/USD", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestGetLatestRate_Success() {
	observedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	suite.mockRate.On("GetLatestRate", mock.Anything, "eur", "usd").Return(&domain.RateObservation{
		RateID: 7, Pair: domain.Pair{Base: "EUR", Target: "USD"}, Value: decimal.RequireFromString("1.08"), ObservedAt: observedAt,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/eur/usd", "", true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("EUR", resp.Base)
	suite.Equal("USD", resp.Target)
	suite.Equal("1.08", resp.Rate.String())
	suite.Empty(suite.trigger.pairs)
}

func (suite *HandlersTestSuite) TestGetLatestRate_NotFoundQueuesFetch() {
	suite.mockRate.On("GetLatestRate", mock.Anything, "GBP", "JPY").Return(nil, apperrors.NewNotFoundError("no rate for GBP/JPY")).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/GBP/JPY", "", true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "queued")
	suite.Equal([]domain.Pair{{Base: "GBP", Target: "JPY"}}, suite.trigger.pairs)
}

func (suite *HandlersTestSuite) TestGetLatestRate_InvalidCode() {
	suite.mockRate.On("GetLatestRate", mock.Anything, "EURO", "USD").Return(nil, apperrors.NewValidationError("invalid currency code %q", "EURO")).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/EURO/USD", "", true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Empty(suite.trigger.pairs)
}

func (suite *HandlersTestSuite) TestGetLatestRate_InternalErrorHidesDetails() {
	suite.mockRate.On("GetLatestRate", mock.Anything, "EUR", "USD").Return(nil, apperrors.NewPersistenceError("select", context.DeadlineExceeded)).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/EUR/USD", "", true)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "deadline")
}

func (suite *HandlersTestSuite) TestTriggerFetch() {
	w := suite.do(http.MethodPost, "/api/v1/rates/fetch/eur/usd", "", true)
	suite.Equal(http.StatusAccepted, w.Code)
	var resp dto.FetchQueuedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(dto.FetchQueuedResponse{Pair: "EUR/USD", Status: "queued"}, resp)

	suite.trigger.result = false
	w = suite.do(http.MethodPost, "/api/v1/rates/fetch/EUR/USD", "", true)
	suite.Equal(http.StatusAccepted, w.Code)
	suite.Contains(w.Body.String(), "already_running")

	w = suite.do(http.MethodPost, "/api/v1/rates/fetch/EUR/EUR", "", true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestTriggerFetch_SchedulerStopped() {
	suite.trigger.result = false
	suite.trigger.err = scheduler.ErrStopped

	w := suite.do(http.MethodPost, "/api/v1/rates/fetch/EUR/USD", "", true)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.NotContains(w.Body.String(), "already_running")

	suite.mockRate.On("GetLatestRate", mock.Anything, "GBP", "JPY").Return(nil, apperrors.NewNotFoundError("no rate for GBP/JPY")).Once()
	w = suite.do(http.MethodGet, "/api/v1/rates/GBP/JPY", "", true)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "unavailable")
	suite.NotContains(w.Body.String(), "already_running")
}

func (suite *HandlersTestSuite) TestRecordRate() {
	suite.mockRate.On("RecordRate", mock.Anything, "EUR", "USD", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("1.1"))
	})).Return(&domain.RateObservation{RateID: 1, Pair: domain.Pair{Base: "EUR", Target: "USD"}, Value: decimal.RequireFromString("1.1")}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/rates", `{"base":"EUR","target":"USD","rate":"1.1"}`, true)
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/rates", `{"base":"EUR"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSubscribe() {
	suite.mockSubscribe.On("Subscribe", mock.Anything, "user1", "eur", "usd").Return(domain.SubscribeCreated, nil).Once()
	suite.mockSubscribe.On("Subscribe", mock.Anything, "user1", "EUR", "USD").Return(domain.SubscribeAlreadyExists, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/subscriptions", `{"userId":"user1","base":"eur","target":"usd"}`, true)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"created"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/subscriptions", `{"userId":"user1","base":"EUR","target":"USD"}`, true)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"already_exists"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/subscriptions", `{"base":"EUR","target":"USD"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSubscribe_ValidationError() {
	suite.mockSubscribe.On("Subscribe", mock.Anything, "user1", "EUR", "EUR").
		Return(domain.SubscribeStatus(""), apperrors.NewValidationError("base and target must differ")).Once()

	w := suite.do(http.MethodPost, "/api/v1/subscriptions", `{"userId":"user1","base":"EUR","target":"EUR"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUnsubscribe() {
	suite.mockSubscribe.On("Unsubscribe", mock.Anything, "user2", "EUR", "USD").Return(domain.UnsubscribeNotFound, nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/subscriptions?user_id=user2&base=EUR&target=USD", "", true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UnsubscribeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.UnsubscribeNotFound, resp.Status)
	suite.NotEmpty(resp.Message)
}

func (suite *HandlersTestSuite) TestListSubscriptions() {
	suite.mockSubscribe.On("ListSubscriptions", mock.Anything, "user1").Return([]domain.Subscription{
		{UserID: "user1", Pair: domain.Pair{Base: "EUR", Target: "USD"}},
		{UserID: "user1", Pair: domain.Pair{Base: "GBP", Target: "JPY"}},
	}, nil).Once()
	suite.mockSubscribe.On("ListSubscriptions", mock.Anything, "nobody").Return([]domain.Subscription{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/subscriptions/user1", "", true)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"subscriptions":[{"base":"EUR","target":"USD"},{"base":"GBP","target":"JPY"}]}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/subscriptions/nobody", "", true)
	suite.JSONEq(`{"subscriptions":[]}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestRegisterUser() {
	suite.mockUser.On("RegisterUser", mock.Anything, dto.RegisterUserRequest{ChatID: "42", Username: "alice"}).
		Return(&domain.User{ChatID: "42", Username: "alice"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/users/register", `{"chatId":"42","username":"alice"}`, true)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"chatId":"42"`)

	w = suite.do(http.MethodPost, "/api/v1/users/register", `{"username":"alice"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetUser_NotFound() {
	suite.mockUser.On("GetUserByChatID", mock.Anything, "99").Return(nil, apperrors.NewNotFoundError("user %s", "99")).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/99", "", true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestJobs() {
	w := suite.do(http.MethodGet, "/api/v1/jobs", "", true)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJobsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Jobs, 2)
	suite.Equal("fetch-rate:EUR/USD", resp.Jobs[0].Name)
	suite.Equal(int64(3), resp.Jobs[0].Runs)
	suite.Nil(resp.Jobs[0].LastStartedAt)

	w = suite.do(http.MethodPost, "/api/v1/jobs/trigger/fetch-rate:EUR/USD", "", true)
	suite.Equal(http.StatusAccepted, w.Code)
	suite.Contains(w.Body.String(), "queued")

	w = suite.do(http.MethodPost, "/api/v1/jobs/trigger/notify-subscribers", "", true)
	suite.Contains(w.Body.String(), "already_running")

	w = suite.do(http.MethodPost, "/api/v1/jobs/trigger/nope", "", true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", "", false)
	suite.Equal(http.StatusOK, w.Code)

	suite.healthCheckFail = apperrors.ErrPersistence
	w = suite.do(http.MethodGet, "/health", "", false)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	suite.metrics.RecordNotification("delivered")
	w = suite.do(http.MethodGet, "/metrics", "", false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "notifications_total")
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
