package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/workflow"
	"github.com/ritsnep/HimalytixNew-sub002/internal/dto"
	"github.com/ritsnep/HimalytixNew-sub002/internal/events"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const publishTimeout = 10 * time.Second

type postingService struct {
	BaseService
	engine       *workflow.Engine
	publisher    events.Publisher
	baseCurrency string
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// NewPostingService creates the service that moves journals from draft to the ledger.
func NewPostingService(store portsrepo.LedgerStore, opts ...Option) portssvc.PostingSvcFacade {
	o := applyOptions(opts)
	return &postingService{
		BaseService:  newBaseService(store, o.clock),
		engine:       o.engine,
		publisher:    o.publisher,
		baseCurrency: o.baseCurrency,
	}
}

func (s *postingService) GetJournal(ctx context.Context, organizationID, journalID string) (*domain.Journal, error) {
	return s.store.FindJournalByID(ctx, organizationID, journalID)
}

func (s *postingService) ListJournals(ctx context.Context, organizationID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	filter := portsrepo.JournalFilter{JournalType: params.JournalType}
	if params.Status != "" {
		status := domain.JournalStatus(params.Status)
		filter.Status = &status
	}
	journals, next, err := s.store.ListJournals(ctx, organizationID, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list journals")
		return nil, err
	}
	res := &dto.ListJournalsResponse{Journals: make([]dto.JournalResponse, 0, len(journals)), NextToken: next}
	for i := range journals {
		res.Journals = append(res.Journals, dto.ToJournalResponse(&journals[i]))
	}
	return res, nil
}

func (s *postingService) CreateDraft(ctx context.Context, organizationID string, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	journal := domain.Journal{
		JournalID:      uuid.NewString(),
		OrganizationID: organizationID,
		Status:         domain.Draft,
		Version:        1,
		AuditFields:    domain.NewAuditFields(actor, s.Now()),
	}
	if err := s.applyJournalContent(&journal, req); err != nil {
		return nil, err
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertJournal(ctx, journal); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityJournal, journal.JournalID, actor, "CREATE", "", string(domain.Draft)))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create journal", slog.String("reference", journal.Reference))
		return nil, err
	}

	s.LogInfo(ctx, "Journal draft created", slog.String("journal_id", journal.JournalID), slog.String("reference", journal.Reference))
	return &journal, nil
}

func (s *postingService) UpdateDraft(ctx context.Context, organizationID, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error) {
	var result *domain.Journal
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		current, err := tx.FindJournalByID(ctx, organizationID, journalID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return &apperrors.StateError{Entity: "journal", ID: journalID, Status: string(current.Status), Attempt: "edit"}
		}
		if current.IsReversal() {
			return &apperrors.StateError{Entity: "journal", ID: journalID, Status: "reversal", Attempt: "edit"}
		}
		if current.Version != req.Version {
			return apperrors.ErrConcurrentModification
		}

		next := current.Clone()
		if req.Reference == "" {
			req.Reference = current.Reference
		}
		if err := s.applyJournalContent(&next, req.CreateJournalRequest); err != nil {
			return err
		}
		next.Touch(actor, s.Now())
		if err := tx.UpdateJournal(ctx, next, req.Version); err != nil {
			return err
		}
		if err := tx.ReplaceJournalLines(ctx, next); err != nil {
			return err
		}
		next.Version = req.Version + 1
		result = &next
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityJournal, journalID, actor, "UPDATE", string(domain.Draft), string(domain.Draft)))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update journal", slog.String("journal_id", journalID))
		return nil, err
	}
	return result, nil
}

// applyJournalContent copies the editable fields of req onto j and renumbers its lines.
func (s *postingService) applyJournalContent(j *domain.Journal, req dto.CreateJournalRequest) error {
	date, err := dto.ParseDate(req.TransactionDate)
	if err != nil {
		return fmt.Errorf("%w: invalid transaction date: %v", apperrors.ErrValidation, err)
	}
	rate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if strings.EqualFold(req.CurrencyCode, s.baseCurrency) && !rate.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: exchange rate of base currency %s must be 1", apperrors.ErrValidation, s.baseCurrency)
	}

	j.Reference = req.Reference
	if j.Reference == "" {
		j.Reference = "JV-" + ulid.Make().String()
	}
	j.JournalType = req.JournalType
	j.TransactionDate = date
	j.CurrencyCode = strings.ToUpper(req.CurrencyCode)
	j.ExchangeRate = rate
	j.Memo = req.Memo
	j.Lines = make([]domain.JournalLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		j.Lines = append(j.Lines, domain.JournalLine{
			LineID:         uuid.NewString(),
			JournalID:      j.JournalID,
			OrganizationID: j.OrganizationID,
			LineNo:         i + 1,
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Dimensions:     domain.Dimensions{Department: l.Department, Project: l.Project, CostCenter: l.CostCenter},
			TaxCode:        l.TaxCode,
			TaxAmount:      l.TaxAmount,
			Memo:           l.Memo,
		})
	}
	return nil
}

func (s *postingService) SubmitForApproval(ctx context.Context, organizationID, journalID, submitter string) (*portssvc.PostingResult, error) {
	res, err := s.submit(ctx, organizationID, journalID, submitter)
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, submitter, "SUBMIT", err)
	}
	return res, nil
}

func (s *postingService) submit(ctx context.Context, organizationID, journalID, submitter string) (*portssvc.PostingResult, error) {
	journal, err := s.store.FindJournalByID(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, apperrors.ErrAlreadySubmitted
	}
	if err := s.checkPostable(ctx, s.store, journal); err != nil {
		return nil, err
	}

	wfs, err := s.store.ListActiveWorkflows(ctx, organizationID, journal.JournalType)
	if err != nil {
		return nil, err
	}
	var (
		outcome  workflow.Outcome
		required bool
	)
	// Workflows come in priority order; the first one that applies to the
	// journal's amount and conditions governs it.
	for _, wf := range wfs {
		if outcome, required, err = s.engine.Submit(*journal, wf, submitter); err != nil {
			return nil, err
		}
		if required {
			break
		}
	}

	res := &portssvc.PostingResult{ApprovalRequired: required}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if !required {
			posted, err := s.postInTx(ctx, tx, *journal, submitter)
			if err != nil {
				return err
			}
			res.Journal = posted
			return nil
		}

		log := outcome.Log
		if err := tx.InsertApprovalLog(ctx, log); err != nil {
			return err
		}
		next := journal.Clone()
		next.Status = domain.PendingApproval
		next.ApprovalLogID = &log.LogID
		next.RejectionReason = nil
		next.Touch(submitter, s.Now())
		if err := tx.UpdateJournal(ctx, next, journal.Version); err != nil {
			return err
		}
		next.Version = journal.Version + 1
		if err := tx.EnqueueNotifications(ctx, outcome.Notifications); err != nil {
			return err
		}
		if err := tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityApprovalLog, log.LogID, submitter, "CREATE", "", string(log.Status))); err != nil {
			return err
		}
		res.Journal = &next
		res.ApprovalLog = &log
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityJournal, journalID, submitter, "SUBMIT", string(domain.Draft), string(domain.PendingApproval)))
	})
	if err != nil {
		return nil, err
	}

	if required {
		s.LogInfo(ctx, "Journal submitted for approval",
			slog.String("journal_id", journalID),
			slog.String("approval_log_id", res.ApprovalLog.LogID),
			slog.String("workflow_id", res.ApprovalLog.WorkflowID))
	} else {
		s.LogInfo(ctx, "Journal posted without approval", slog.String("journal_id", journalID))
		s.publishPosted(ctx, res.Journal)
	}
	return res, nil
}

// checkPostable runs the balance, period and account checks against committed data.
func (s *postingService) checkPostable(ctx context.Context, r portsrepo.LedgerReader, j *domain.Journal) error {
	if err := accounting.ValidateBalance(j.Lines); err != nil {
		return err
	}
	periods, err := r.FindPeriodsCovering(ctx, j.OrganizationID, j.TransactionDate)
	if err != nil {
		return err
	}
	if _, err := accounting.CheckOpen(periods, j.OrganizationID, j.TransactionDate); err != nil {
		return err
	}
	_, err = s.lineAccounts(ctx, r, j)
	return err
}

// lineAccounts loads the accounts referenced by j and checks they exist in
// the journal's organization and are active.
func (s *postingService) lineAccounts(ctx context.Context, r portsrepo.LedgerReader, j *domain.Journal) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(j.Lines))
	seen := make(map[string]bool, len(j.Lines))
	for _, l := range j.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := r.FindAccountsByIDs(ctx, j.OrganizationID, ids)
	if err != nil {
		return nil, err
	}
	for i, l := range j.Lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, &apperrors.InvalidLineError{Index: i, Reason: fmt.Sprintf("account %s does not exist", l.AccountID)}
		}
		if !acc.IsActive {
			return nil, &apperrors.InvalidLineError{Index: i, Reason: fmt.Sprintf("account %s is inactive", acc.Code)}
		}
	}
	return accounts, nil
}

func (s *postingService) Approve(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, comment string) (*portssvc.PostingResult, error) {
	return s.decide(ctx, organizationID, journalID, approver, stepIndex, domain.DecisionApprove, comment)
}

func (s *postingService) Reject(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, reason string) (*portssvc.PostingResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	return s.decide(ctx, organizationID, journalID, approver, stepIndex, domain.DecisionReject, reason)
}

func (s *postingService) decide(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, decision domain.Decision, comment string) (*portssvc.PostingResult, error) {
	action := string(decision)
	res, posted, err := s.applyDecision(ctx, organizationID, journalID, approver, stepIndex, decision, comment)
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, approver, action, err)
	}

	s.LogInfo(ctx, "Approval decision recorded",
		slog.String("journal_id", journalID),
		slog.String("approver", approver),
		slog.String("decision", action),
		slog.String("journal_status", string(res.Journal.Status)))
	if posted {
		s.publishPosted(ctx, res.Journal)
	}
	return res, nil
}

func (s *postingService) applyDecision(ctx context.Context, organizationID, journalID, approver string, stepIndex *int, decision domain.Decision, comment string) (*portssvc.PostingResult, bool, error) {
	journal, err := s.store.FindJournalByID(ctx, organizationID, journalID)
	if err != nil {
		return nil, false, err
	}
	if journal.Status != domain.PendingApproval || journal.ApprovalLogID == nil {
		return nil, false, &apperrors.StateError{Entity: "journal", ID: journalID, Status: string(journal.Status), Attempt: "decide on"}
	}
	current, err := s.store.FindApprovalLogByID(ctx, organizationID, *journal.ApprovalLogID)
	if err != nil {
		return nil, false, err
	}

	step := 0
	if stepIndex != nil {
		step = *stepIndex
	} else if step, err = s.engine.ResolveStep(*current, approver); err != nil {
		return nil, false, err
	}
	outcome, err := s.engine.RecordDecision(*current, step, approver, decision, comment)
	if err != nil {
		return nil, false, err
	}

	res := &portssvc.PostingResult{ApprovalRequired: true}
	posted := false
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		posted = false
		log := outcome.Log.Clone()
		if err := tx.InsertDecision(ctx, *outcome.Decision); err != nil {
			return err
		}
		if err := tx.UpdateApprovalLog(ctx, log, current.Version); err != nil {
			return err
		}
		log.Version = current.Version + 1

		now := s.Now()
		next := journal.Clone()
		before := next.Status
		switch {
		case outcome.Rejected:
			next.Status = domain.Draft
			next.RejectionReason = log.RejectionReason
			next.ApprovalLogID = nil
		case outcome.Approved:
			next.Status = domain.Approved
		}
		next.Touch(approver, now)
		if err := tx.UpdateJournal(ctx, next, journal.Version); err != nil {
			return err
		}
		next.Version = journal.Version + 1

		if err := tx.EnqueueNotifications(ctx, outcome.Notifications); err != nil {
			return err
		}
		if err := tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityApprovalLog, log.LogID, approver, string(decision), string(current.Status), string(log.Status))); err != nil {
			return err
		}
		if before != next.Status {
			if err := tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityJournal, journalID, approver, string(decision), string(before), string(next.Status))); err != nil {
				return err
			}
		}

		if outcome.Approved && log.AutoPost {
			p, err := s.postInTx(ctx, tx, next, approver)
			if err != nil {
				return err
			}
			next = *p
			posted = true
		}
		res.Journal = &next
		res.ApprovalLog = &log
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return res, posted, nil
}

func (s *postingService) Post(ctx context.Context, organizationID, journalID, actor string) (*domain.Journal, error) {
	journal, err := s.store.FindJournalByID(ctx, organizationID, journalID)
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, actor, "POST", err)
	}
	if journal.Status == domain.Posted {
		return journal, nil
	}
	if journal.Status != domain.Approved {
		err := &apperrors.StateError{Entity: "journal", ID: journalID, Status: string(journal.Status), Attempt: "post"}
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, actor, "POST", err)
	}

	var posted *domain.Journal
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		posted, err = s.postInTx(ctx, tx, *journal, actor)
		return err
	})
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, actor, "POST", err)
	}

	s.LogInfo(ctx, "Journal posted", slog.String("journal_id", journalID), slog.String("reference", posted.Reference))
	s.publishPosted(ctx, posted)
	return posted, nil
}

// postInTx writes j to the general ledger. j must be the stored version of the
// journal; its status is checked by the caller.
func (s *postingService) postInTx(ctx context.Context, tx portsrepo.LedgerTx, j domain.Journal, actor string) (*domain.Journal, error) {
	if err := accounting.ValidateBalance(j.Lines); err != nil {
		return nil, err
	}
	periods, err := tx.FindPeriodsCoveringForPosting(ctx, j.OrganizationID, j.TransactionDate)
	if err != nil {
		return nil, err
	}
	if _, err := accounting.CheckOpen(periods, j.OrganizationID, j.TransactionDate); err != nil {
		return nil, err
	}
	accounts, err := s.lineAccounts(ctx, tx, &j)
	if err != nil {
		return nil, err
	}
	base, err := accounting.ConvertToBase(j.Lines, j.ExchangeRate)
	if err != nil {
		return nil, err
	}

	deltas := make([]domain.Amount, len(j.Lines))
	changes := make(map[string]domain.Amount, len(accounts))
	for i, l := range j.Lines {
		d, err := accounting.BalanceDelta(accounts[l.AccountID], base[i])
		if err != nil {
			return nil, err
		}
		deltas[i] = d
		changes[l.AccountID] += d
	}

	now := s.Now()
	before, err := tx.ApplyBalanceChanges(ctx, j.OrganizationID, changes, actor, now)
	if err != nil {
		return nil, err
	}
	running := make(map[string]domain.Amount, len(before))
	for id, acc := range before {
		running[id] = acc.Balance
	}

	entries := make([]domain.GeneralLedgerEntry, 0, len(j.Lines))
	for i, l := range j.Lines {
		running[l.AccountID] += deltas[i]
		entries = append(entries, domain.GeneralLedgerEntry{
			EntryID:         ulid.Make().String(),
			OrganizationID:  j.OrganizationID,
			JournalID:       j.JournalID,
			LineID:          l.LineID,
			AccountID:       l.AccountID,
			TransactionDate: j.TransactionDate,
			CurrencyCode:    j.CurrencyCode,
			ExchangeRate:    j.ExchangeRate,
			Debit:           l.Debit,
			Credit:          l.Credit,
			BaseDebit:       base[i].Debit,
			BaseCredit:      base[i].Credit,
			RunningBalance:  running[l.AccountID],
			PostedAt:        now,
			PostedBy:        actor,
		})
	}
	if err := tx.InsertGeneralLedgerEntries(ctx, entries); err != nil {
		return nil, err
	}

	posted := j.Clone()
	beforeStatus := posted.Status
	posted.Status = domain.Posted
	posted.PostedAt = &now
	posted.PostedBy = &actor
	posted.Touch(actor, now)
	if err := tx.UpdateJournal(ctx, posted, j.Version); err != nil {
		return nil, err
	}
	posted.Version = j.Version + 1

	if posted.IsReversal() {
		if err := s.markReversed(ctx, tx, posted, actor, now); err != nil {
			return nil, err
		}
	}

	amount := accounting.FormatAmount(accounting.JournalAmount(j.Lines), j.CurrencyCode)
	notification := domain.Notification{
		NotificationID:   uuid.NewString(),
		OrganizationID:   j.OrganizationID,
		Recipient:        j.CreatedBy,
		Kind:             domain.NotifyPosted,
		JournalID:        j.JournalID,
		JournalReference: j.Reference,
		LogID:            j.ApprovalLogID,
		Message:          fmt.Sprintf("Journal %s for %s was posted to the ledger", j.Reference, amount),
		CreatedAt:        now,
	}
	if err := tx.EnqueueNotifications(ctx, []domain.Notification{notification}); err != nil {
		return nil, err
	}
	if err := tx.InsertAuditEntry(ctx, s.auditEntry(j.OrganizationID, domain.EntityJournal, j.JournalID, actor, "POST", string(beforeStatus), string(domain.Posted))); err != nil {
		return nil, err
	}
	return &posted, nil
}

// markReversed flips the original of a posted reversal to REVERSED.
func (s *postingService) markReversed(ctx context.Context, tx portsrepo.LedgerTx, reversal domain.Journal, actor string, now time.Time) error {
	original, err := tx.FindJournalByID(ctx, reversal.OrganizationID, *reversal.ReversalOfJournalID)
	if err != nil {
		return err
	}
	if original.Status != domain.Posted {
		return &apperrors.StateError{Entity: "journal", ID: original.JournalID, Status: string(original.Status), Attempt: "reverse"}
	}
	if !mirrorsLines(reversal.Lines, original.Lines) {
		return fmt.Errorf("%w: journal %s does not mirror the lines of %s", apperrors.ErrValidation, reversal.JournalID, original.JournalID)
	}
	next := original.Clone()
	next.Status = domain.Reversed
	next.ReversedByJournalID = &reversal.JournalID
	next.Touch(actor, now)
	if err := tx.UpdateJournal(ctx, next, original.Version); err != nil {
		return err
	}
	return tx.InsertAuditEntry(ctx, s.auditEntry(reversal.OrganizationID, domain.EntityJournal, original.JournalID, actor, "REVERSE", string(domain.Posted), string(domain.Reversed)))
}

// mirrorsLines reports whether reversal swaps every debit and credit of
// original on the same accounts, line for line.
func mirrorsLines(reversal, original []domain.JournalLine) bool {
	if len(reversal) != len(original) {
		return false
	}
	byNo := func(lines []domain.JournalLine) []domain.JournalLine {
		out := slices.Clone(lines)
		slices.SortFunc(out, func(a, b domain.JournalLine) int { return a.LineNo - b.LineNo })
		return out
	}
	rev, orig := byNo(reversal), byNo(original)
	for i := range rev {
		if rev[i].AccountID != orig[i].AccountID || rev[i].Debit != orig[i].Credit || rev[i].Credit != orig[i].Debit {
			return false
		}
	}
	return true
}

func (s *postingService) Reverse(ctx context.Context, organizationID, journalID, actor string, req dto.ReverseJournalRequest) (*portssvc.PostingResult, error) {
	draft, err := s.createReversal(ctx, organizationID, journalID, actor, req)
	if err != nil {
		return nil, s.recordFailure(ctx, organizationID, domain.EntityJournal, journalID, actor, "REVERSE", err)
	}
	s.LogInfo(ctx, "Reversal draft ready", slog.String("journal_id", draft.JournalID), slog.String("original_id", journalID))
	return s.SubmitForApproval(ctx, organizationID, draft.JournalID, actor)
}

func (s *postingService) createReversal(ctx context.Context, organizationID, journalID, actor string, req dto.ReverseJournalRequest) (*domain.Journal, error) {
	original, err := s.store.FindJournalByID(ctx, organizationID, journalID)
	if err != nil {
		return nil, err
	}
	if err := reversible(original); err != nil {
		return nil, err
	}

	date := original.TransactionDate
	if req.TransactionDate != nil {
		if date, err = dto.ParseDate(*req.TransactionDate); err != nil {
			return nil, fmt.Errorf("%w: invalid transaction date: %v", apperrors.ErrValidation, err)
		}
	}

	now := s.Now()
	draft := domain.Journal{
		JournalID:           uuid.NewString(),
		OrganizationID:      organizationID,
		Reference:           "REV-" + original.Reference,
		JournalType:         original.JournalType,
		TransactionDate:     date,
		CurrencyCode:        original.CurrencyCode,
		ExchangeRate:        original.ExchangeRate,
		Memo:                fmt.Sprintf("Reversal of %s: %s", original.Reference, req.Reason),
		Status:              domain.Draft,
		Version:             1,
		ReversalOfJournalID: &original.JournalID,
		AuditFields:         domain.NewAuditFields(actor, now),
	}
	for _, l := range original.Lines {
		draft.Lines = append(draft.Lines, domain.JournalLine{
			LineID:         uuid.NewString(),
			JournalID:      draft.JournalID,
			OrganizationID: organizationID,
			LineNo:         l.LineNo,
			AccountID:      l.AccountID,
			Debit:          l.Credit,
			Credit:         l.Debit,
			Dimensions:     l.Dimensions,
			TaxCode:        l.TaxCode,
			TaxAmount:      l.TaxAmount,
			Memo:           l.Memo,
		})
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		current, err := tx.FindJournalByID(ctx, organizationID, journalID)
		if err != nil {
			return err
		}
		if err := reversible(current); err != nil {
			return err
		}
		existing, err := tx.FindReversalsOf(ctx, organizationID, journalID)
		if err != nil {
			return err
		}
		switch {
		case len(existing) == 1 && existing[0].Status == domain.Draft:
			// An unsubmitted reversal is resumed rather than duplicated.
			draft = existing[0]
			return nil
		case len(existing) > 0:
			return &apperrors.StateError{Entity: "journal", ID: journalID, Status: "reversal " + string(existing[0].Status), Attempt: "reverse"}
		}
		if err := tx.InsertJournal(ctx, draft); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, s.auditEntry(organizationID, domain.EntityJournal, draft.JournalID, actor, "CREATE", "", string(domain.Draft)))
	})
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func reversible(j *domain.Journal) error {
	if j.Status != domain.Posted {
		return &apperrors.StateError{Entity: "journal", ID: j.JournalID, Status: string(j.Status), Attempt: "reverse"}
	}
	if j.IsReversal() {
		return &apperrors.StateError{Entity: "journal", ID: j.JournalID, Status: "reversal", Attempt: "reverse"}
	}
	if j.ReversedByJournalID != nil {
		return &apperrors.StateError{Entity: "journal", ID: j.JournalID, Status: "already reversed", Attempt: "reverse"}
	}
	return nil
}

func (s *postingService) ApprovalQueue(ctx context.Context, organizationID, approver string) ([]dto.ApprovalQueueItem, error) {
	logs, err := s.store.ListOpenApprovalLogs(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ApprovalQueueItem, 0)
	for _, l := range logs {
		if !s.engine.EligibleAt(l, approver) {
			continue
		}
		step, err := s.engine.ResolveStep(l, approver)
		if err != nil {
			continue
		}
		items = append(items, dto.ApprovalQueueItem{
			LogID:            l.LogID,
			JournalID:        l.JournalID,
			JournalReference: l.JournalRef,
			Status:           l.Status,
			StepIndex:        step,
			StepName:         l.Steps[step].Name,
			SubmittedBy:      l.SubmittedBy,
			SubmittedAt:      l.SubmittedAt,
		})
	}
	return items, nil
}

func (s *postingService) GetApprovalLog(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	return s.store.FindApprovalLogByID(ctx, organizationID, logID)
}

// publishPosted hands the posted journal to the inventory hook without
// blocking the caller. Failures are logged only.
func (s *postingService) publishPosted(ctx context.Context, j *domain.Journal) {
	ev := events.NewJournalPostedEvent(*j)
	logger := s.GetLogger(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishJournalPosted(ctx, ev); err != nil {
			logger.Error("Failed to publish journal posted event",
				slog.String("error", err.Error()),
				slog.String("journal_id", ev.JournalID))
		}
	}()
}
