package services

import (
	portsrepo "github.com/contaula/contaula/internal/core/ports/repositories"
	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Chart = NewChartService(repos.AccountRepo)
	container.Entry = NewEntryService(repos.EntryRepo, repos.AccountRepo, repos.PeriodRepo, cfg)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.EntryRepo, repos.ReportingRepo)
	container.Statement = NewStatementService(repos.ReportingRepo)
	container.Period = NewPeriodService(repos.EntryRepo, repos.AccountRepo, repos.PeriodRepo, repos.ReportingRepo, cfg)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartSvcFacade   = (*chartService)(nil)
	_ portssvc.EntrySvcFacade   = (*entryService)(nil)
	_ portssvc.LedgerService    = (*ledgerService)(nil)
	_ portssvc.StatementService = (*statementService)(nil)
	_ portssvc.PeriodService    = (*periodService)(nil)
	_ portssvc.UserSvcFacade    = (*userService)(nil)
)
