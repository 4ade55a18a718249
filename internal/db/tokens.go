package db

import (
	"context"
	"time"

	"github.com/blogapi/backend/internal/model"
)

func insertToken(ctx context.Context, q DBTX, token model.Token) error {
	_, err := q.Exec(ctx, `
		INSERT INTO tokens (token, expires, user_id)
		VALUES ($1, $2, $3)
	`, token.Value, token.Expires, token.UserID)
	return err
}

func (db *Postgres) InsertToken(ctx context.Context, token model.Token) error {
	return insertToken(ctx, db.Pool, token)
}

// GetUserByToken returns the owner of a token that is still live at now.
func (db *Postgres) GetUserByToken(ctx context.Context, value string, now time.Time) (*model.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1 AND t.expires > $2
	`, value, now))
}
