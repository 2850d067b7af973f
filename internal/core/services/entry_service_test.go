package services_test

import (
	"context"
	"testing"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/core/domain"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/core/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.EntrySvcFacade
	userID          string

	cashAccount     domain.Account
	bankAccount     domain.Account
	revenueAccount  domain.Account
	expenseAccount  domain.Account
	aggregator      domain.Account
	inactiveAccount domain.Account
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)

	cfg := &config.Config{
		BankingThreshold:  decimal.NewFromInt(1000),
		CashAccountPrefix: "1.1.1.01",
		BankAccountPrefix: "1.1.1.03",
	}
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockPeriodRepo, cfg)
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1.1.1.01",
		Name:          "Cash",
		Kind:          domain.Asset,
		NormalBalance: domain.DebitBalance,
		IsLeaf:        true,
		Active:        true,
	}
	suite.bankAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1.1.1.03",
		Name:          "Bank",
		Kind:          domain.Asset,
		NormalBalance: domain.DebitBalance,
		IsLeaf:        true,
		Active:        true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "4.1.1.01",
		Name:          "Sales",
		Kind:          domain.Revenue,
		NormalBalance: domain.CreditBalance,
		IsLeaf:        true,
		Active:        true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "5.1.1.01",
		Name:          "Rent",
		Kind:          domain.Expense,
		NormalBalance: domain.DebitBalance,
		IsLeaf:        true,
		Active:        true,
	}
	suite.aggregator = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1.1",
		Name:          "Current assets",
		Kind:          domain.Asset,
		NormalBalance: domain.DebitBalance,
		IsLeaf:        false,
		Active:        true,
	}
	suite.inactiveAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1.1.1.02",
		Name:          "Petty cash",
		Kind:          domain.Asset,
		NormalBalance: domain.DebitBalance,
		IsLeaf:        true,
		Active:        false,
	}
}

func (suite *EntryServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		m[acc.AccountID] = acc
	}
	return m
}

func (suite *EntryServiceTestSuite) simpleSaleRequest(amount decimal.Decimal, confirm bool) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Cash sale",
		Confirm:     confirm,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}
}

func (suite *EntryServiceTestSuite) TestCreateEntry_DraftSuccess() {
	ctx := context.Background()
	req := suite.simpleSaleRequest(decimal.NewFromInt(500), false)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.EqualValues(0, entry.SequenceNumber, "drafts carry no sequence number")
	suite.Len(entry.Lines, 2)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	// Drafts skip the period check
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "IsDateClosed", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ConfirmedSuccess() {
	ctx := context.Background()
	req := suite.simpleSaleRequest(decimal.NewFromInt(500), true)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			e := args.Get(1).(*domain.JournalEntry)
			e.SequenceNumber = 42
		}).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Confirmed, entry.Status)
	suite.EqualValues(42, entry.SequenceNumber)
	suite.True(entry.IsBalanced())
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Off by a cent",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromFloat(100.00)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromFloat(99.99)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_LineShapeViolations() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		line    dto.CreateEntryLineRequest
		wantErr error
	}{
		{
			name:    "both sides positive",
			line:    dto.CreateEntryLineRequest{AccountID: suite.cashAccount.AccountID, Debit: amount, Credit: amount},
			wantErr: apperrors.ErrBothSidesPositive,
		},
		{
			name:    "neither side positive",
			line:    dto.CreateEntryLineRequest{AccountID: suite.cashAccount.AccountID},
			wantErr: apperrors.ErrNeitherSidePositive,
		},
		{
			name:    "negative amount",
			line:    dto.CreateEntryLineRequest{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(-5)},
			wantErr: apperrors.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := dto.CreateEntryRequest{
				EntryDate:   "2025-03-10",
				Description: "Bad line",
				Lines: []dto.CreateEntryLineRequest{
					tt.line,
					{AccountID: suite.revenueAccount.AccountID, Credit: amount},
				},
			}
			_, err := suite.service.CreateEntry(ctx, req, suite.userID)
			suite.Require().Error(err)
			suite.ErrorIs(err, tt.wantErr)
			// Every shape violation also matches the family error
			suite.ErrorIs(err, apperrors.ErrInvalidLine)
		})
	}
}

func (suite *EntryServiceTestSuite) TestCreateEntry_TooManyDecimals() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Sub-cent precision",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.RequireFromString("10.123")},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.RequireFromString("10.123")},
		},
	}

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidLine)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_NonLeafAccount() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Posting to aggregator",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.aggregator.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.aggregator, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNonLeafAccount)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Posting to inactive",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.inactiveAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.inactiveAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ClosedPeriod() {
	ctx := context.Background()
	req := suite.simpleSaleRequest(decimal.NewFromInt(500), true)

	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_SingleLineRejectedAsUnbalanced() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Lonely debit",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
		},
	}

	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced, "one positive side can never balance")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ClosedPeriodReportedBeforeLineErrors() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-01-15",
		Description: "Bad line in a closed month",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(-50)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(50)},
		},
	}

	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.NotErrorIs(err, apperrors.ErrInvalidLine)
	// The lines are never inspected once the period check fails
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_BankingThresholdExceeded() {
	ctx := context.Background()
	req := suite.simpleSaleRequest(decimal.NewFromInt(1500), true)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBankingThreshold)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_BankingThresholdExactAmountAllowed() {
	ctx := context.Background()
	req := suite.simpleSaleRequest(decimal.NewFromInt(1000), true)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err, "amounts at the threshold pass; only above it fails")
}

func (suite *EntryServiceTestSuite) TestCreateEntry_BankAccountExemptFromThreshold() {
	ctx := context.Background()
	amount := decimal.NewFromInt(25000)
	req := dto.CreateEntryRequest{
		EntryDate:   "2025-03-10",
		Description: "Large bank deposit",
		Confirm:     true,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.bankAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.bankAccount, suite.revenueAccount), nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
}

func (suite *EntryServiceTestSuite) TestConfirmEntry_AlreadyConfirmed() {
	ctx := context.Background()
	entryID := uuid.NewString()
	confirmed := &domain.JournalEntry{EntryID: entryID, Status: domain.Confirmed, SequenceNumber: 7}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(confirmed, nil).Once()

	_, err := suite.service.ConfirmEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyConfirmed)
}

func (suite *EntryServiceTestSuite) TestVoidEntry_SwapsSidesAndLinks() {
	ctx := context.Background()
	entryID := uuid.NewString()
	amount := decimal.NewFromInt(300)

	original := &domain.JournalEntry{
		EntryID:        entryID,
		SequenceNumber: 12,
		Status:         domain.Confirmed,
		Description:    "Cash sale",
	}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Debit: decimal.Zero, Credit: amount},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockPeriodRepo.On("IsDateClosed", ctx, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	var capturedOriginal, capturedReversal *domain.JournalEntry
	suite.mockEntryRepo.On("VoidEntry", ctx, mock.AnythingOfType("*domain.JournalEntry"), mock.AnythingOfType("*domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			capturedOriginal = args.Get(1).(*domain.JournalEntry)
			capturedReversal = args.Get(2).(*domain.JournalEntry)
			capturedReversal.SequenceNumber = 13
		}).Return(nil).Once()

	reversal, err := suite.service.VoidEntry(ctx, entryID, dto.VoidEntryRequest{Reason: "wrong amount"}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)

	// The original is voided and linked to its reversal
	suite.Equal(domain.Voided, capturedOriginal.Status)
	suite.Require().NotNil(capturedOriginal.ReversedByID)
	suite.Equal(reversal.EntryID, *capturedOriginal.ReversedByID)
	suite.Equal("wrong amount", capturedOriginal.VoidReason)

	// The reversal swaps every line's sides so the pair nets to zero
	suite.Require().NotNil(capturedReversal.ReversalOfID)
	suite.Equal(entryID, *capturedReversal.ReversalOfID)
	suite.Equal(domain.Confirmed, capturedReversal.Status)
	suite.Require().Len(capturedReversal.Lines, 2)
	suite.True(capturedReversal.Lines[0].Credit.Equal(amount))
	suite.True(capturedReversal.Lines[0].Debit.IsZero())
	suite.True(capturedReversal.Lines[1].Debit.Equal(amount))
	suite.True(capturedReversal.Lines[1].Credit.IsZero())
	suite.True(capturedReversal.IsBalanced())
	suite.EqualValues(13, reversal.SequenceNumber)
}

func (suite *EntryServiceTestSuite) TestVoidEntry_DraftRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.Draft}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()

	_, err := suite.service.VoidEntry(ctx, entryID, dto.VoidEntryRequest{Reason: "mistake"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotConfirmed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "VoidEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
