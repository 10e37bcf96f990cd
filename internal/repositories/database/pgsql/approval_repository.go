package pgsql

import (
	"context"
	"fmt"

	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/domain"
	"github.com/ritsnep/HimalytixNew-sub002/internal/models"
	"github.com/ritsnep/HimalytixNew-sub002/internal/utils/mapping"
)

const approvalLogColumns = `log_id, organization_id, journal_id, journal_reference, workflow_id, workflow_version,
	approval_type, auto_post, steps, step_states, current_step, status, escalation_count, rejection_reason,
	submitted_by, submitted_at, completed_at, version`

const decisionColumns = `decision_id, log_id, organization_id, step_index, approver, decision, comment, decided_at`

// withDecisions loads the decisions of every log in one query.
func (r *reader) withDecisions(ctx context.Context, logs []models.ApprovalLog) ([]domain.ApprovalLog, error) {
	if len(logs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.LogID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+decisionColumns+` FROM approval_decisions WHERE log_id = ANY($1) ORDER BY decided_at, decision_id`, ids)
	decisions, err := collect[models.ApprovalDecision](rows, err)
	if err != nil {
		return nil, dbError("failed to load approval decisions", err)
	}
	byLog := make(map[string][]domain.ApprovalDecision, len(logs))
	for _, d := range decisions {
		byLog[d.LogID] = append(byLog[d.LogID], mapping.ToDomainApprovalDecision(d))
	}

	out := make([]domain.ApprovalLog, 0, len(logs))
	for _, m := range logs {
		l, err := mapping.ToDomainApprovalLog(m, byLog[m.LogID])
		if err != nil {
			return nil, dbError("failed to decode approval log", err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *reader) FindApprovalLogByID(ctx context.Context, organizationID, logID string) (*domain.ApprovalLog, error) {
	rows, err := r.q.Query(ctx, `SELECT `+approvalLogColumns+` FROM approval_logs WHERE organization_id = $1 AND log_id = $2`, organizationID, logID)
	m, err := collectOne[models.ApprovalLog](rows, err, notFound("approval log", logID))
	if err != nil {
		return nil, wrapRead("failed to find approval log "+logID, err)
	}
	logs, err := r.withDecisions(ctx, []models.ApprovalLog{*m})
	if err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// ListOpenApprovalLogs returns PENDING and ESCALATED logs, of every
// organization when organizationID is empty.
func (r *reader) ListOpenApprovalLogs(ctx context.Context, organizationID string) ([]domain.ApprovalLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+approvalLogColumns+`
		FROM approval_logs
		WHERE status IN ($2, $3) AND ($1 = '' OR organization_id = $1)
		ORDER BY submitted_at, log_id`,
		organizationID, string(domain.ApprovalPending), string(domain.ApprovalEscalated))
	logs, err := collect[models.ApprovalLog](rows, err)
	if err != nil {
		return nil, dbError("failed to list open approval logs", err)
	}
	return r.withDecisions(ctx, logs)
}

func (r *reader) ListApprovalLogsByJournal(ctx context.Context, organizationID, journalID string) ([]domain.ApprovalLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+approvalLogColumns+`
		FROM approval_logs
		WHERE organization_id = $1 AND journal_id = $2
		ORDER BY submitted_at, log_id`, organizationID, journalID)
	logs, err := collect[models.ApprovalLog](rows, err)
	if err != nil {
		return nil, dbError("failed to list approval logs of journal "+journalID, err)
	}
	return r.withDecisions(ctx, logs)
}

func (t *pgTx) InsertApprovalLog(ctx context.Context, log domain.ApprovalLog) error {
	m, err := mapping.ToModelApprovalLog(log)
	if err != nil {
		return dbError("failed to encode approval log "+log.LogID, err)
	}
	_, err = t.q.Exec(ctx, `
		INSERT INTO approval_logs (`+approvalLogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		m.LogID, m.OrganizationID, m.JournalID, m.JournalRef, m.WorkflowID, m.WorkflowVersion,
		m.ApprovalType, m.AutoPost, m.Steps, m.StepStates, m.CurrentStep, m.Status, m.EscalationCount, m.RejectionReason,
		m.SubmittedBy, m.SubmittedAt, m.CompletedAt, m.Version,
	)
	if code, _ := pgErrorCode(err); code == pgUniqueViolation {
		return fmt.Errorf("approval log %s: %w", log.LogID, apperrors.ErrDuplicate)
	}
	if err != nil {
		return dbError("failed to insert approval log "+log.LogID, err)
	}
	return nil
}

// UpdateApprovalLog writes the log if the stored version is still expectedVersion.
func (t *pgTx) UpdateApprovalLog(ctx context.Context, log domain.ApprovalLog, expectedVersion int64) error {
	m, err := mapping.ToModelApprovalLog(log)
	if err != nil {
		return dbError("failed to encode approval log "+log.LogID, err)
	}
	tag, err := t.q.Exec(ctx, `
		UPDATE approval_logs
		SET step_states = $3, current_step = $4, status = $5, escalation_count = $6, rejection_reason = $7,
			completed_at = $8, steps = $9, version = version + 1
		WHERE organization_id = $1 AND log_id = $2 AND version = $10`,
		m.OrganizationID, m.LogID, m.StepStates, m.CurrentStep, m.Status, m.EscalationCount, m.RejectionReason,
		m.CompletedAt, m.Steps, expectedVersion,
	)
	if err != nil {
		return dbError("failed to update approval log "+log.LogID, err)
	}
	if tag.RowsAffected() == 0 {
		return t.versionConflict(ctx, `SELECT 1 FROM approval_logs WHERE organization_id = $1 AND log_id = $2`, "approval log", log.OrganizationID, log.LogID)
	}
	return nil
}

// InsertDecision appends a decision. The unique key on (log, step, approver)
// rejects a second vote even when two transactions race.
func (t *pgTx) InsertDecision(ctx context.Context, decision domain.ApprovalDecision) error {
	m := mapping.ToModelApprovalDecision(decision)
	_, err := t.q.Exec(ctx, `
		INSERT INTO approval_decisions (`+decisionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.DecisionID, m.LogID, m.OrganizationID, m.StepIndex, m.Approver, m.Decision, m.Comment, m.DecidedAt,
	)
	if err != nil {
		switch code, constraint := pgErrorCode(err); {
		case code == pgUniqueViolation && constraint == decisionOnceConstraint:
			return apperrors.ErrDuplicateDecision
		case code == pgForeignKeyViolation:
			return notFound("approval log", decision.LogID)
		}
		return dbError("failed to insert decision on approval log "+decision.LogID, err)
	}
	return nil
}
