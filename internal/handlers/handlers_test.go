package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/handlers"
	"github.com/SscSPs/school_fees_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}

func (m *MockInvoiceService) GenerateInvoices(ctx context.Context, req dto.GenerateInvoicesRequest, actorID string) (*domain.GenerationResult, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationResult), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPaymentService) CancelInvoice(ctx context.Context, invoiceID string, reason string, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockPaymentService) ListLearnerTransactions(ctx context.Context, learnerID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) LearnerBalance(ctx context.Context, learnerID string, period domain.Period) (*domain.LearnerBalance, error) {
	args := m.Called(ctx, learnerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerBalance), args.Error(1)
}

func (m *MockBalanceService) LearnerBalances(ctx context.Context, learnerIDs []string, period domain.Period) (map[string]domain.LearnerBalance, error) {
	args := m.Called(ctx, learnerIDs, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LearnerBalance), args.Error(1)
}

func (m *MockBalanceService) GradeBalances(ctx context.Context, gradeID string, period domain.Period) (*domain.GradeBalanceReport, error) {
	args := m.Called(ctx, gradeID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GradeBalanceReport), args.Error(1)
}

func (m *MockBalanceService) CurrentPeriod(ctx context.Context) (*domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) GetSettings(ctx context.Context) (*domain.ReminderAutomationSettings, domain.ReminderState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.ReminderAutomationSettings), args.Get(1).(domain.ReminderState), args.Error(2)
}

func (m *MockReminderService) SaveSettings(ctx context.Context, form domain.ReminderSettingsForm, actorID string) (*domain.ReminderAutomationSettings, error) {
	args := m.Called(ctx, form, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReminderAutomationSettings), args.Error(1)
}

func (m *MockReminderService) Tick(ctx context.Context, force bool) (*domain.TickResult, error) {
	args := m.Called(ctx, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TickResult), args.Error(1)
}

func (m *MockReminderService) ListRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReminderRun), args.Error(1)
}

var _ portssvc.ReminderSvcFacade = (*MockReminderService)(nil)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, actorID string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}

func (m *MockCatalogService) ListFeeStructures(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}

func (m *MockCatalogService) ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DiscountSetting), args.Error(1)
}

func (m *MockCatalogService) UpdateDiscountSetting(ctx context.Context, req dto.UpdateDiscountSettingRequest, actorID string) (*domain.DiscountSetting, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountSetting), args.Error(1)
}

var _ portssvc.CatalogSvcFacade = (*MockCatalogService)(nil)

// --- Test Suite ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	invoices  *MockInvoiceService
	payments  *MockPaymentService
	balances  *MockBalanceService
	reminders *MockReminderService
	catalog   *MockCatalogService
	jwtSecret string
	userID    string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "bursar-1"
	suite.invoices = new(MockInvoiceService)
	suite.payments = new(MockPaymentService)
	suite.balances = new(MockBalanceService)
	suite.reminders = new(MockReminderService)
	suite.catalog = new(MockCatalogService)

	suite.router = gin.New()
	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Invoice:  suite.invoices,
		Payment:  suite.payments,
		Balance:  suite.balances,
		Reminder: suite.reminders,
		Catalog:  suite.catalog,
	}, nil)
}

// generateTestToken creates a signed JWT for the given subject.
func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fees-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestMissingTokenIsUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.invoices.AssertNotCalled(suite.T(), "ListInvoices", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_Created() {
	invoiceID := "inv-1"
	suite.payments.On("RecordPayment", mock.Anything, mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
		return req.LearnerID == "l-1" && req.Amount.Equal(decimal.NewFromInt(2500)) && *req.InvoiceID == invoiceID
	}), suite.userID).Return(&domain.Transaction{
		TransactionNumber: "TXN-2024-000001",
		LearnerID:         "l-1",
		InvoiceID:         &invoiceID,
		Amount:            decimal.NewFromInt(2500),
		PaymentMethod:     domain.PaymentMobileMoney,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"learnerId": "l-1",
		"amount":    "2500",
		"method":    "mobile_money",
		"invoiceId": invoiceID,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TXN-2024-000001", resp.TransactionNumber)
	suite.payments.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_CancelledInvoiceConflict() {
	suite.payments.On("RecordPayment", mock.Anything, mock.Anything, suite.userID).Return(nil, apperrors.ErrInvoiceCancelled).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{"learnerId": "l-1", "amount": "10", "method": "cash", "invoiceId": "inv-9"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_InvalidAmount() {
	suite.payments.On("RecordPayment", mock.Anything, mock.Anything, suite.userID).Return(nil, apperrors.ErrInvalidAmount).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{"learnerId": "l-1", "amount": "-5", "method": "cash"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestCancelInvoice_NotFound() {
	suite.payments.On("CancelInvoice", mock.Anything, "missing", "duplicate", suite.userID).Return(nil, apperrors.ErrInvoiceNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/missing/cancel", map[string]any{"reason": "duplicate"})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.payments.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGenerateInvoices_RequiresPeriod() {
	w := suite.do(http.MethodPost, "/api/v1/invoices/generate", map[string]any{"term": "term_1"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.invoices.AssertNotCalled(suite.T(), "GenerateInvoices", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGenerateInvoices_ReportsBatch() {
	suite.invoices.On("GenerateInvoices", mock.Anything, dto.GenerateInvoicesRequest{AcademicYear: "2024-2025", Term: "term_1"}, suite.userID).
		Return(&domain.GenerationResult{Created: 12, Skipped: 3}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/generate", map[string]any{"academicYear": "2024-2025", "term": "term_1"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.GenerateInvoicesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(12, resp.Created)
	suite.Equal(3, resp.Skipped)
	suite.NotNil(resp.Errors)
}

func (suite *LedgerHandlerTestSuite) TestListInvoices_RejectsUnknownStatus() {
	w := suite.do(http.MethodGet, "/api/v1/invoices?status=settled", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestLearnerBalance_DefaultsToCurrentPeriod() {
	period := domain.Period{AcademicYear: "2024-2025", Term: "term_2"}
	suite.balances.On("CurrentPeriod", mock.Anything).Return(&period, nil).Once()
	suite.balances.On("LearnerBalance", mock.Anything, "l-1", period).Return(&domain.LearnerBalance{
		LearnerID:    "l-1",
		Period:       period,
		TotalBalance: decimal.NewFromInt(-500),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/learners/l-1/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.LearnerBalance
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(decimal.NewFromInt(-500).Equal(resp.TotalBalance))
	suite.balances.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestLearnerBalance_ExplicitPeriod() {
	period := domain.Period{AcademicYear: "2023-2024", Term: "term_3"}
	suite.balances.On("LearnerBalance", mock.Anything, "l-1", period).Return(&domain.LearnerBalance{LearnerID: "l-1", Period: period}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/learners/l-1/balance?academicYear=2023-2024&term=term_3", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.balances.AssertNotCalled(suite.T(), "CurrentPeriod", mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGradeBalances_NoCurrentPeriod() {
	suite.balances.On("CurrentPeriod", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/grades/grade-4/balances", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestRunReminders_Forced() {
	suite.reminders.On("Tick", mock.Anything, true).Return(&domain.TickResult{Sent: 4, Skipped: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reminders/run", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.TickResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(4, resp.Sent)
	suite.reminders.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestSaveReminderSettings_PassesForm() {
	grade := "grade-7"
	saved := &domain.ReminderAutomationSettings{IsEnabled: true, IntervalDays: 14, Scope: domain.ScopeGrade, GradeID: &grade, IncludeCurrentTerm: true}
	suite.reminders.On("SaveSettings", mock.Anything, domain.ReminderSettingsForm{
		IsEnabled: true, IntervalDays: 14, Scope: domain.ScopeGrade, GradeID: &grade, IncludeCurrentTerm: true,
	}, suite.userID).Return(saved, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/reminders/settings", map[string]any{
		"isEnabled": true, "intervalDays": 14, "scope": "grade", "gradeId": grade, "includeCurrentTerm": true,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReminderSettingsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.ReminderArmed, resp.State)
}

func (suite *LedgerHandlerTestSuite) TestCreateFeeStructure_Duplicate() {
	suite.catalog.On("CreateFeeStructure", mock.Anything, mock.Anything, suite.userID).Return(nil, apperrors.ErrConflict).Once()

	w := suite.do(http.MethodPost, "/api/v1/fee-structures", map[string]any{
		"academicYear": "2024-2025", "term": "term_1", "gradeId": "grade-4",
		"lineItems": []map[string]any{{"name": "Tuition", "amount": "40000"}},
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestStorageFailureIsInternal() {
	suite.catalog.On("ListDiscountSettings", mock.Anything).Return(nil, apperrors.NewAppError(500, "discount query failed", errors.New("conn reset by peer"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/discounts", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "conn reset")
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
