// Package memory is an in-process LedgerStore for development and tests.
// Committed state is never mutated in place: each transaction works on a
// copy and swaps it in on success, and transactions run one at a time.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
)

type state struct {
	accounts      map[string]domain.Account
	journals      map[string]domain.Journal
	entries       []domain.GeneralLedgerEntry
	periods       map[string]domain.AccountingPeriod
	workflows     map[string]domain.ApprovalWorkflow
	logs          map[string]domain.ApprovalLog
	decisions     map[string][]domain.ApprovalDecision
	notifications []domain.Notification
	audit         []domain.AuditEntry
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		journals:  make(map[string]domain.Journal),
		periods:   make(map[string]domain.AccountingPeriod),
		workflows: make(map[string]domain.ApprovalWorkflow),
		logs:      make(map[string]domain.ApprovalLog),
		decisions: make(map[string][]domain.ApprovalDecision),
	}
}

// clone copies the containers. Stored values are replaced, never modified, so
// sharing them between versions is safe.
func (s *state) clone() *state {
	c := &state{
		accounts:      make(map[string]domain.Account, len(s.accounts)),
		journals:      make(map[string]domain.Journal, len(s.journals)),
		entries:       append([]domain.GeneralLedgerEntry(nil), s.entries...),
		periods:       make(map[string]domain.AccountingPeriod, len(s.periods)),
		workflows:     make(map[string]domain.ApprovalWorkflow, len(s.workflows)),
		logs:          make(map[string]domain.ApprovalLog, len(s.logs)),
		decisions:     make(map[string][]domain.ApprovalDecision, len(s.decisions)),
		notifications: append([]domain.Notification(nil), s.notifications...),
		audit:         append([]domain.AuditEntry(nil), s.audit...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.journals {
		c.journals[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	for k, v := range s.workflows {
		c.workflows[k] = v
	}
	for k, v := range s.logs {
		c.logs[k] = v
	}
	for k, v := range s.decisions {
		c.decisions[k] = v
	}
	return c
}

// Store is an in-memory implementation of repositories.LedgerStore.
type Store struct {
	current atomic.Pointer[state]
	writeMu sync.Mutex

	claimMu sync.Mutex
	claimed map[string]struct{}
}

var _ repositories.LedgerStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{claimed: make(map[string]struct{})}
	s.current.Store(newState())
	return s
}

func (s *Store) view() *view {
	return &view{st: s.current.Load()}
}

// RunInTx runs fn against a private copy of the committed state and publishes
// the copy if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn repositories.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx := &memTx{view: view{st: s.current.Load().clone()}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.current.Store(tx.st)
	return nil
}

// ClaimPendingNotifications hands unsent notifications to fn. Claimed rows are
// skipped by concurrent claimers until fn returns.
func (s *Store) ClaimPendingNotifications(ctx context.Context, limit, maxAttempts int, fn repositories.ClaimFunc) error {
	s.claimMu.Lock()
	var batch []domain.Notification
	for _, n := range s.current.Load().notifications {
		if len(batch) >= limit {
			break
		}
		if n.Sent || n.Attempts >= maxAttempts {
			continue
		}
		if _, busy := s.claimed[n.NotificationID]; busy {
			continue
		}
		s.claimed[n.NotificationID] = struct{}{}
		batch = append(batch, n)
	}
	s.claimMu.Unlock()

	defer func() {
		s.claimMu.Lock()
		for _, n := range batch {
			delete(s.claimed, n.NotificationID)
		}
		s.claimMu.Unlock()
	}()

	if len(batch) == 0 {
		return nil
	}
	return fn(ctx, batch, &marker{store: s})
}
