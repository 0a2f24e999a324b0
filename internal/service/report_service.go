package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/ledger"
	"github.com/firdaushadi/borang-server/internal/reconcile"
	"github.com/firdaushadi/borang-server/internal/roster"
)

// Overview is the dashboard view: one reconciliation pass plus availability
// flags for each backing source. An unavailable source degrades to an empty
// list with its flag raised, so the dashboard can render what it has and warn
// the operator about the rest.
type Overview struct {
	reconcile.Report
	RosterUnavailable bool `json:"rosterUnavailable"`
	LedgerUnavailable bool `json:"ledgerUnavailable"`
}

// ReportService computes the admin dashboard overview.
type ReportService struct {
	roster roster.Source
	ledger ledger.Store
	logger *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(rosterSource roster.Source, ledgerStore ledger.Store, logger *zap.Logger) *ReportService {
	return &ReportService{
		roster: rosterSource,
		ledger: ledgerStore,
		logger: logger,
	}
}

// Overview fetches both sources fresh and reconciles them. The two fetches are
// independent round trips with no ordering guarantee, so they run
// concurrently; the pass itself is pure and safe to repeat at any time.
func (s *ReportService) Overview(ctx context.Context) Overview {
	var (
		wg          sync.WaitGroup
		families    []entity.Family
		submissions []entity.Submission
		rosterErr   error
		ledgerErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		families, rosterErr = s.roster.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		submissions, ledgerErr = s.ledger.FetchAll(ctx)
	}()
	wg.Wait()

	overview := Overview{}
	if rosterErr != nil {
		s.logger.Warn("Roster unavailable for reconciliation", zap.Error(rosterErr))
		overview.RosterUnavailable = true
		families = nil
	}
	if ledgerErr != nil {
		s.logger.Warn("Ledger unavailable for reconciliation", zap.Error(ledgerErr))
		overview.LedgerUnavailable = true
		submissions = nil
	}

	overview.Report = reconcile.Reconcile(families, submissions)
	return overview
}
