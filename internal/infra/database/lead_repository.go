package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, session_id, COALESCE(email, ''), COALESCE(name, ''), COALESCE(company, ''),
	COALESCE(project_type, ''), COALESCE(industry, ''), COALESCE(budget_range, ''),
	COALESCE(timeline, ''), COALESCE(notes, ''), qualification_score, status,
	follow_up_sent_at, COALESCE(follow_up_subject, ''), follow_up_claimed_at,
	created_at, updated_at`

// UpsertBySession merges a save with whatever the session captured earlier.
// Later non-empty values win per attribute; the merged row is scanned back
// into lead.
func (r *LeadRepository) UpsertBySession(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, session_id, email, name, company, project_type, industry,
			budget_range, timeline, notes, qualification_score, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			email        = COALESCE(EXCLUDED.email, leads.email),
			name         = COALESCE(EXCLUDED.name, leads.name),
			company      = COALESCE(EXCLUDED.company, leads.company),
			project_type = COALESCE(EXCLUDED.project_type, leads.project_type),
			industry     = COALESCE(EXCLUDED.industry, leads.industry),
			budget_range = COALESCE(EXCLUDED.budget_range, leads.budget_range),
			timeline     = COALESCE(EXCLUDED.timeline, leads.timeline),
			notes        = COALESCE(EXCLUDED.notes, leads.notes),
			updated_at   = NOW()
		RETURNING ` + leadColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.SessionID,
		nullString(lead.Email),
		nullString(lead.Name),
		nullString(lead.Company),
		nullString(lead.ProjectType),
		nullString(lead.Industry),
		nullString(lead.BudgetRange),
		nullString(lead.Timeline),
		nullString(lead.Notes),
		string(lead.Status),
	)

	return scanLeadInto(row, lead)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead := &entity.Lead{}
	if err := scanLeadInto(r.DB.QueryRowContext(ctx, query, id), lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) UpdateQualification(ctx context.Context, id string, score int, status entity.LeadStatus) error {
	query := `
		UPDATE leads
		SET qualification_score = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, score, string(status))
	return err
}

// ListEligibleForFollowUp applies the eligibility predicate in SQL so the
// batch only ever reads rows it could act on: warm band, unsent, inside the
// age window, oldest first. limit <= 0 means no cap.
func (r *LeadRepository) ListEligibleForFollowUp(ctx context.Context, minScore, maxScore int, minAge, maxAge time.Duration, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE email IS NOT NULL
		  AND qualification_score >= $1
		  AND qualification_score < $2
		  AND follow_up_sent_at IS NULL
		  AND created_at <= NOW() - $3 * INTERVAL '1 second'
		  AND created_at >= NOW() - $4 * INTERVAL '1 second'
		ORDER BY created_at ASC
	`
	args := []interface{}{minScore, maxScore, int64(minAge.Seconds()), int64(maxAge.Seconds())}
	if limit > 0 {
		query += ` LIMIT $5`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ClaimForFollowUp is the single conditional update that makes overlapping
// runs safe: only one caller can move follow_up_claimed_at inside the lease.
func (r *LeadRepository) ClaimForFollowUp(ctx context.Context, id string, lease time.Duration) (bool, error) {
	query := `
		UPDATE leads
		SET follow_up_claimed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND follow_up_sent_at IS NULL
		  AND (follow_up_claimed_at IS NULL OR follow_up_claimed_at < NOW() - $2 * INTERVAL '1 second')
	`
	res, err := r.DB.ExecContext(ctx, query, id, int64(lease.Seconds()))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *LeadRepository) ReleaseFollowUpClaim(ctx context.Context, id string) error {
	query := `
		UPDATE leads
		SET follow_up_claimed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND follow_up_sent_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

// FinalizeFollowUp stamps the send. Guarded on follow_up_sent_at IS NULL so
// the stamp is written at most once even if callers misbehave.
func (r *LeadRepository) FinalizeFollowUp(ctx context.Context, id string, sentAt time.Time, subject string) error {
	query := `
		UPDATE leads
		SET follow_up_sent_at = $2,
		    follow_up_subject = $3,
		    follow_up_claimed_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND follow_up_sent_at IS NULL
	`
	res, err := r.DB.ExecContext(ctx, query, id, sentAt, subject)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("lead %s already stamped", id)
	}
	return nil
}

func (r *LeadRepository) ListAll(ctx context.Context, limit int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLeadInto(row rowScanner, lead *entity.Lead) error {
	var status string
	if err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.Email,
		&lead.Name,
		&lead.Company,
		&lead.ProjectType,
		&lead.Industry,
		&lead.BudgetRange,
		&lead.Timeline,
		&lead.Notes,
		&lead.QualificationScore,
		&status,
		&lead.FollowUpSentAt,
		&lead.FollowUpSubject,
		&lead.FollowUpClaimedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return err
	}

	parsed, err := entity.ParseLeadStatus(status)
	if err != nil {
		return err
	}
	lead.Status = parsed
	return nil
}

func collectLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	leads := []*entity.Lead{}
	for rows.Next() {
		lead := &entity.Lead{}
		if err := scanLeadInto(rows, lead); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
