package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/core/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/platform/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockTxnRepo     *MockTransactionRepository
	mockLearners    *MockLearnerDirectory
	clock           *clock.Fixed
	service         portssvc.PaymentSvcFacade
	invoice         domain.Invoice
	userID          string
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockLearners = new(MockLearnerDirectory)
	suite.clock = clock.NewFixed(time.Date(2024, 9, 10, 9, 0, 0, 0, time.UTC))
	suite.service = services.NewPaymentService(suite.mockInvoiceRepo, suite.mockTxnRepo, suite.mockLearners, services.WithClock(suite.clock))
	suite.userID = "bursar-1"

	fs := domain.FeeStructure{
		FeeStructureID: "fs-g4",
		Period:         domain.Period{AcademicYear: "2024-2025", Term: "term_1"},
		GradeID:        "grade-4",
		TotalAmount:    decimal.NewFromInt(50000),
	}
	discounts := []domain.DiscountSetting{{DiscountType: domain.DiscountStaffParent, Percentage: decimal.NewFromInt(10), IsEnabled: true}}
	suite.invoice = domain.NewInvoice(
		domain.LearnerSummary{LearnerID: "l-1", GradeID: "grade-4", IsStaffChild: true},
		fs, discounts, time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC), 30, suite.userID,
	)
	suite.invoice.InvoiceNumber = "INV-2024-2025-TERM_1-000001"
}

func (suite *PaymentServiceTestSuite) invoicePayment(amount int64) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		LearnerID: "l-1",
		Amount:    decimal.NewFromInt(amount),
		Method:    domain.PaymentMobileMoney,
		InvoiceID: &suite.invoice.InvoiceID,
	}
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_SettlesInvoice() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, suite.invoice.InvoiceID).Return(&suite.invoice, nil).Once()

	txn, err := suite.service.RecordPayment(ctx, suite.invoicePayment(45000), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn.InvoiceID)
	suite.Equal(suite.invoice.InvoiceID, *txn.InvoiceID)
	suite.Equal(suite.invoice.Period, txn.Period)
	suite.True(decimal.NewFromInt(45000).Equal(txn.Amount))
	suite.Equal(suite.clock.Now(), txn.PaymentDate)
	suite.NotEmpty(txn.TransactionNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_RejectsNonPositiveAmount() {
	for _, amount := range []int64{0, -100} {
		txn, err := suite.service.RecordPayment(context.Background(), suite.invoicePayment(amount), suite.userID)
		suite.Nil(txn)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceLocked", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_RejectsUnknownMethod() {
	req := suite.invoicePayment(100)
	req.Method = "barter"

	txn, err := suite.service.RecordPayment(context.Background(), req, suite.userID)

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_CancelledInvoice() {
	ctx := context.Background()
	cancelled := suite.invoice
	suite.Require().NoError(cancelled.Cancel("duplicate", suite.userID, suite.clock.Now()))
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, cancelled.InvoiceID).Return(&cancelled, nil).Once()

	txn, err := suite.service.RecordPayment(ctx, suite.invoicePayment(1000), suite.userID)

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInvoiceCancelled)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_InvoiceOfAnotherLearner() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, suite.invoice.InvoiceID).Return(&suite.invoice, nil).Once()
	req := suite.invoicePayment(1000)
	req.LearnerID = "l-2"

	txn, err := suite.service.RecordPayment(ctx, req, suite.userID)

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_UnknownInvoice() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, suite.invoice.InvoiceID).Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.RecordPayment(ctx, suite.invoicePayment(1000), suite.userID)

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInvoiceNotFound)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_AdHocWithPeriodTag() {
	ctx := context.Background()
	year, term := "2024-2025", "term_1"
	req := dto.RecordPaymentRequest{
		LearnerID:    "l-1",
		Amount:       decimal.NewFromInt(2500),
		Method:       domain.PaymentCash,
		AcademicYear: &year,
		Term:         &term,
	}
	suite.mockLearners.On("FindLearnerByID", ctx, "l-1").Return(&domain.LearnerSummary{LearnerID: "l-1"}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.InvoiceID == nil && txn.Period == domain.Period{AcademicYear: year, Term: term} && txn.CreatedBy == suite.userID
	})).Return(&domain.Transaction{TransactionNumber: "TXN-2024-000001", LearnerID: "l-1", Amount: req.Amount}, nil).Once()

	txn, err := suite.service.RecordPayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("TXN-2024-000001", txn.TransactionNumber)
	suite.mockLearners.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_AdHocUnknownLearner() {
	ctx := context.Background()
	req := dto.RecordPaymentRequest{LearnerID: "ghost", Amount: decimal.NewFromInt(10), Method: domain.PaymentCash}
	suite.mockLearners.On("FindLearnerByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.RecordPayment(ctx, req, suite.userID)

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrLearnerNotFound)
}

func (suite *PaymentServiceTestSuite) TestCancelInvoice_BlankReason() {
	inv, err := suite.service.CancelInvoice(context.Background(), suite.invoice.InvoiceID, "   ", suite.userID)

	suite.Nil(inv)
	suite.ErrorIs(err, apperrors.ErrReasonRequired)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceLocked", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCancelInvoice_FreezesBalance() {
	ctx := context.Background()
	partial := suite.invoice
	suite.Require().NoError(partial.ApplyPayment(decimal.NewFromInt(20000), suite.userID, suite.clock.Now()))
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, partial.InvoiceID).Return(&partial, nil).Once()

	inv, err := suite.service.CancelInvoice(ctx, partial.InvoiceID, "learner transferred", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, inv.Status)
	suite.True(decimal.NewFromInt(20000).Equal(inv.AmountPaid))
	suite.True(decimal.NewFromInt(25000).Equal(inv.BalanceDue))
	suite.Require().NotNil(inv.CancelReason)
	suite.Equal("learner transferred", *inv.CancelReason)
}

func (suite *PaymentServiceTestSuite) TestCancelInvoice_AlreadyCancelled() {
	ctx := context.Background()
	cancelled := suite.invoice
	suite.Require().NoError(cancelled.Cancel("duplicate", suite.userID, suite.clock.Now()))
	suite.mockInvoiceRepo.On("UpdateInvoiceLocked", ctx, cancelled.InvoiceID).Return(&cancelled, nil).Once()

	inv, err := suite.service.CancelInvoice(ctx, cancelled.InvoiceID, "again", suite.userID)

	suite.Nil(inv)
	suite.ErrorIs(err, apperrors.ErrAlreadyCancelled)
}

func (suite *PaymentServiceTestSuite) TestListLearnerTransactions_OldestFirst() {
	ctx := context.Background()
	first := domain.Transaction{TransactionNumber: "TXN-2023-000007", PaymentDate: time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), IsLegacy: true}
	second := domain.Transaction{TransactionNumber: "TXN-2024-000001", PaymentDate: time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)}
	suite.mockTxnRepo.On("ListTransactionsByLearnerIDs", ctx, []string{"l-1"}).
		Return(map[string][]domain.Transaction{"l-1": {second, first}}, nil).Once()

	txns, err := suite.service.ListLearnerTransactions(ctx, "l-1")

	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.Equal(first.TransactionNumber, txns[0].TransactionNumber)
	suite.True(txns[0].IsLegacy)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
