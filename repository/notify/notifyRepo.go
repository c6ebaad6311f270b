// repository/notify/repo.go
package notifyrepo

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/InkaFilipinka/scooter-website-sub000/util/httpx"
)

// Repo dispatches staff push notifications at most once per (booking, event).
// The claim is a persisted idempotency key, not an in-memory flag: the card
// rail can confirm through both the webhook and the redirect landing, and
// only the first claimant may notify.
type Repo interface {
	// Claim returns true when this caller won the right to send the event.
	Claim(ctx context.Context, bookingID, eventType string) (bool, error)
	Push(ctx context.Context, title, message string) error
}

type repo struct {
	db     *sql.DB
	topic  string
	client *http.Client
}

func New(db *sql.DB, topicURL string) Repo {
	return &repo{db: db, topic: topicURL, client: httpx.Client()}
}

func (r *repo) Claim(ctx context.Context, bookingID, eventType string) (bool, error) {
	const q = `
INSERT INTO notification_events (booking_id, event_type)
VALUES ($1, $2)
ON CONFLICT (booking_id, event_type) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, bookingID, eventType)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) Push(ctx context.Context, title, message string) error {
	if r.topic == "" {
		return nil // notifications not configured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.topic, strings.NewReader(message))
	if err != nil {
		return err
	}
	req.Header.Set("Title", title)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify push: %s", resp.Status)
	}
	return nil
}
