package services_test

import (
	"context"
	"testing"
	"time"

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

type PeriodServiceTestSuite struct {
	suite.Suite
	mockEntryRepo     *MockEntryRepository
	mockAccountRepo   *MockAccountRepository
	mockPeriodRepo    *MockPeriodRepository
	mockReportingRepo *MockReportingRepository
	cfg               *config.Config
	service           portssvc.PeriodService
	userID            string

	equityAccount domain.Account
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.cfg = &config.Config{ClosingAccountCode: "3.3.1.01"}
	suite.service = services.NewPeriodService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockPeriodRepo, suite.mockReportingRepo, suite.cfg)
	suite.userID = uuid.NewString()

	suite.equityAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "3.3.1.01",
		Name:          "Retained earnings",
		Kind:          domain.Equity,
		NormalBalance: domain.CreditBalance,
		IsLeaf:        true,
		Active:        true,
	}
}

// resultAccountsMap builds active leaf accounts for the swept movements plus
// the closing equity account, keyed by ID as the repository returns them.
func (suite *PeriodServiceTestSuite) resultAccountsMap(movements []domain.AccountMovement) map[string]domain.Account {
	accounts := map[string]domain.Account{
		suite.equityAccount.AccountID: suite.equityAccount,
	}
	for _, m := range movements {
		accounts[m.AccountID] = domain.Account{
			AccountID:     m.AccountID,
			Code:          m.Code,
			Name:          m.Name,
			Kind:          m.Kind,
			NormalBalance: m.NormalBalance,
			IsLeaf:        true,
			Active:        true,
		}
	}
	return accounts
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_SweepsResultsIntoEquity() {
	ctx := context.Background()
	req := dto.ClosePeriodRequest{Year: 2025, Month: 3}
	closeDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	revenueID := uuid.NewString()
	expenseID := uuid.NewString()
	movements := []domain.AccountMovement{
		{
			AccountID: revenueID, Code: "4.1.1.01", Name: "Sales", Kind: domain.Revenue,
			NormalBalance: domain.CreditBalance,
			Debit:         decimal.Zero, Credit: decimal.NewFromInt(900),
		},
		{
			AccountID: expenseID, Code: "6.1.1.01", Name: "Rent", Kind: domain.Expense,
			NormalBalance: domain.DebitBalance,
			Debit:         decimal.NewFromInt(350), Credit: decimal.Zero,
		},
	}

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2025, 3).Return(nil, nil).Once()
	suite.mockReportingRepo.On("GetMovementsByKinds", ctx, domain.ResultKinds, time.Time{}, closeDate).Return(movements, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "3.3.1.01").Return(&suite.equityAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.resultAccountsMap(movements), nil).Once()

	var savedEntry *domain.JournalEntry
	var savedPeriod *domain.AccountingPeriod
	suite.mockEntryRepo.On("SaveClosingEntry", ctx, mock.AnythingOfType("*domain.JournalEntry"), mock.AnythingOfType("*domain.AccountingPeriod")).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*domain.JournalEntry)
			savedPeriod = args.Get(2).(*domain.AccountingPeriod)
		}).Return(nil).Once()

	period, entry, err := suite.service.ClosePeriod(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.PeriodClosed, period.Status)
	suite.Require().NotNil(period.ClosedBy)
	suite.Equal(suite.userID, *period.ClosedBy)

	suite.Require().NotNil(savedEntry)
	suite.Equal(domain.Confirmed, savedEntry.Status)
	suite.True(savedEntry.EntryDate.Equal(closeDate), "closing entry is dated on the month's last day")
	suite.True(savedEntry.IsBalanced())
	suite.Require().Len(savedEntry.Lines, 3)

	byAccount := map[string]domain.JournalLine{}
	for _, line := range savedEntry.Lines {
		byAccount[line.AccountID] = line
	}
	// Revenue residual is debited away, the expense residual credited away
	suite.True(byAccount[revenueID].Debit.Equal(decimal.NewFromInt(900)))
	suite.True(byAccount[expenseID].Credit.Equal(decimal.NewFromInt(350)))
	// The profit lands as a credit on the configured equity account
	suite.True(byAccount[suite.equityAccount.AccountID].Credit.Equal(decimal.NewFromInt(550)))

	suite.Require().NotNil(savedPeriod)
	suite.Equal(2025, savedPeriod.Year)
	suite.Equal(3, savedPeriod.Month)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_LossDebitsEquity() {
	ctx := context.Background()
	req := dto.ClosePeriodRequest{Year: 2025, Month: 4}
	closeDate := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	expenseID := uuid.NewString()
	movements := []domain.AccountMovement{
		{
			AccountID: expenseID, Code: "6.1.1.01", Name: "Rent", Kind: domain.Expense,
			NormalBalance: domain.DebitBalance,
			Debit:         decimal.NewFromInt(200), Credit: decimal.Zero,
		},
	}

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2025, 4).Return(nil, nil).Once()
	suite.mockReportingRepo.On("GetMovementsByKinds", ctx, domain.ResultKinds, time.Time{}, closeDate).Return(movements, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "3.3.1.01").Return(&suite.equityAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.resultAccountsMap(movements), nil).Once()
	suite.mockEntryRepo.On("SaveClosingEntry", ctx, mock.AnythingOfType("*domain.JournalEntry"), mock.AnythingOfType("*domain.AccountingPeriod")).Return(nil).Once()

	_, entry, err := suite.service.ClosePeriod(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.True(entry.IsBalanced())
	for _, line := range entry.Lines {
		if line.AccountID == suite.equityAccount.AccountID {
			suite.True(line.Debit.Equal(decimal.NewFromInt(200)), "a loss debits the equity account")
		}
	}
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_NoActivityClosesWithoutEntry() {
	ctx := context.Background()
	req := dto.ClosePeriodRequest{Year: 2025, Month: 1}
	closeDate := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2025, 1).Return(nil, nil).Once()
	suite.mockReportingRepo.On("GetMovementsByKinds", ctx, domain.ResultKinds, time.Time{}, closeDate).Return([]domain.AccountMovement{}, nil).Once()
	suite.mockEntryRepo.On("SaveClosingEntry", ctx, (*domain.JournalEntry)(nil), mock.AnythingOfType("*domain.AccountingPeriod")).Return(nil).Once()

	period, entry, err := suite.service.ClosePeriod(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(entry, "a month with no result activity closes without an entry")
	suite.Equal(domain.PeriodClosed, period.Status)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_InactiveResultAccountBlocksClose() {
	ctx := context.Background()
	req := dto.ClosePeriodRequest{Year: 2025, Month: 5}
	closeDate := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	revenueID := uuid.NewString()
	movements := []domain.AccountMovement{
		{
			AccountID: revenueID, Code: "4.1.1.01", Name: "Sales", Kind: domain.Revenue,
			NormalBalance: domain.CreditBalance,
			Debit:         decimal.Zero, Credit: decimal.NewFromInt(80),
		},
	}
	accounts := suite.resultAccountsMap(movements)
	inactive := accounts[revenueID]
	inactive.Active = false
	accounts[revenueID] = inactive

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2025, 5).Return(nil, nil).Once()
	suite.mockReportingRepo.On("GetMovementsByKinds", ctx, domain.ResultKinds, time.Time{}, closeDate).Return(movements, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "3.3.1.01").Return(&suite.equityAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, _, err := suite.service.ClosePeriod(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount, "the closing entry passes the same posting rules as any other")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveClosingEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_AlreadyClosed() {
	ctx := context.Background()
	req := dto.ClosePeriodRequest{Year: 2025, Month: 2}
	closed := &domain.AccountingPeriod{
		PeriodID: uuid.NewString(),
		Year:     2025,
		Month:    2,
		Status:   domain.PeriodClosed,
	}

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2025, 2).Return(closed, nil).Once()

	_, _, err := suite.service.ClosePeriod(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodAlreadyClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveClosingEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestGetPeriod_UnrecordedMonthIsOpen() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("FindPeriod", ctx, 2026, 7).Return(nil, nil).Once()

	period, err := suite.service.GetPeriod(ctx, 2026, 7)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.Equal(2026, period.Year)
	suite.Equal(7, period.Month)
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
