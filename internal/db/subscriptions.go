package db

import "context"

// Subscribe is idempotent; a second call for the same edge is a no-op.
func (db *Postgres) Subscribe(ctx context.Context, subscriberID, targetID int64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO subscriptions (subscriber_id, subscription_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, subscriberID, targetID)
	return err
}

func (db *Postgres) Unsubscribe(ctx context.Context, subscriberID, targetID int64) error {
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM subscriptions
		WHERE subscriber_id = $1 AND subscription_id = $2
	`, subscriberID, targetID)
	return err
}
