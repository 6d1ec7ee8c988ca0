package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// ClaimSweeper re-opens leads whose follow-up claim outlived the lease. The
// claim lease already makes the conditional update safe on its own; the
// sweeper just shortens the wait after a crashed run instead of leaving the
// lead parked until the next claim attempt.
type ClaimSweeper struct {
	db           *sql.DB
	lease        time.Duration
	tickInterval time.Duration
}

func NewClaimSweeper(db *sql.DB, lease time.Duration) *ClaimSweeper {
	return &ClaimSweeper{
		db:           db,
		lease:        lease,
		tickInterval: 1 * time.Minute,
	}
}

func (w *ClaimSweeper) Start(ctx context.Context) {
	log.Printf("🕒 claim sweeper started (lease %s)", w.lease)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.releaseStaleClaims(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ claim sweeper stopped")
			return
		case <-ticker.C:
			w.releaseStaleClaims(ctx)
		}
	}
}

func (w *ClaimSweeper) releaseStaleClaims(ctx context.Context) {
	query := `
		UPDATE leads
		SET
			follow_up_claimed_at = NULL,
			updated_at = NOW()
		WHERE
			follow_up_sent_at IS NULL
			AND follow_up_claimed_at IS NOT NULL
			AND follow_up_claimed_at < NOW() - $1 * INTERVAL '1 second'
		RETURNING id
	`

	rows, err := w.db.QueryContext(ctx, query, int64(w.lease.Seconds()))
	if err != nil {
		log.Printf("❌ failed to sweep stale claims: %v", err)
		return
	}
	defer rows.Close()

	released := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Printf("⚠️ failed to scan stale claim: %v", err)
			continue
		}

		log.Printf("⏱️ released stale follow-up claim: lead=%s", id)
		released++
	}

	if released > 0 {
		log.Printf("✅ %d stale claim(s) released", released)
	}
}
