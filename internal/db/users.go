package db

import (
	"context"
	"fmt"

	"github.com/blogapi/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const userColumns = `u.id, u.username, u.hashed_password, u.is_active, u.short_biography, u.birth_date, u.country, u.city, u.created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&user.ShortBiography,
		&user.BirthDate,
		&user.Country,
		&user.City,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and its first token in one transaction.
// token.UserID is ignored; the new user's id is used.
func (db *Postgres) CreateUser(ctx context.Context, u model.NewUser, token model.Token) (*model.User, error) {
	var user *model.User
	err := WithTx(ctx, db.Pool, func(ctx context.Context, tx DBTX) error {
		var err error
		user, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users AS u (username, hashed_password, is_active, short_biography, birth_date, country, city)
			VALUES ($1, $2, TRUE, $3, $4, $5, $6)
			RETURNING `+userColumns,
			u.Username, u.PasswordHash, u.ShortBiography, u.BirthDate, u.Country, u.City,
		))
		if err != nil {
			return err
		}
		token.UserID = user.ID
		return insertToken(ctx, tx, token)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.username = $1
	`, username))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = $1
	`, userID))
}

// UpdateCredentials changes username and digest and records the new token
// in one transaction.
func (db *Postgres) UpdateCredentials(ctx context.Context, userID int64, username, passwordHash string, token model.Token) error {
	return WithTx(ctx, db.Pool, func(ctx context.Context, tx DBTX) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET username = $2, hashed_password = $3
			WHERE id = $1
		`, userID, username, passwordHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		token.UserID = userID
		return insertToken(ctx, tx, token)
	})
}

// UpdateProfile writes the descriptive fields and, when update.Interests is
// non-nil, replaces the interest associations.
func (db *Postgres) UpdateProfile(ctx context.Context, userID int64, update model.ProfileUpdate) error {
	return WithTx(ctx, db.Pool, func(ctx context.Context, tx DBTX) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET short_biography = $2, birth_date = $3, country = $4, city = $5
			WHERE id = $1
		`, userID, update.ShortBiography, update.BirthDate, update.Country, update.City)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if update.Interests == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_interests WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, interest := range update.Interests {
			var interestID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO interests (interest)
				VALUES ($1)
				ON CONFLICT (interest) DO UPDATE SET interest = EXCLUDED.interest
				RETURNING id
			`, interest).Scan(&interestID)
			if err != nil {
				return fmt.Errorf("upsert interest %q: %w", interest, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_interests (user_id, interest_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, userID, interestID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *Postgres) GetProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`,
			(SELECT count(*) FROM subscriptions s WHERE s.subscription_id = u.id),
			(SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			(SELECT count(*) FROM posts p WHERE p.user_id = u.id)
		FROM users u
		WHERE u.id = $1
	`, userID)

	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.PasswordHash,
		&p.IsActive,
		&p.ShortBiography,
		&p.BirthDate,
		&p.Country,
		&p.City,
		&p.CreatedAt,
		&p.SubscribersNumber,
		&p.SubscriptionsNumber,
		&p.PostsNumber,
	)
	if err != nil {
		return nil, err
	}

	if p.Interests, err = db.ListInterests(ctx, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) ListInterests(ctx context.Context, userID int64) ([]model.Interest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT i.id, i.interest
		FROM interests i
		JOIN user_interests ui ON ui.interest_id = i.id
		WHERE ui.user_id = $1
		ORDER BY i.interest
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Interest{}
	for rows.Next() {
		var i model.Interest
		if err := rows.Scan(&i.ID, &i.Interest); err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// ListOtherUsers pages through everyone except excludeID, most subscribed first.
func (db *Postgres) ListOtherUsers(ctx context.Context, excludeID int64, limit, offset int) ([]model.UserView, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+userColumns+`,
			(SELECT count(*) FROM subscriptions s WHERE s.subscription_id = u.id) AS subscribers
		FROM users u
		WHERE u.id <> $1
		ORDER BY subscribers DESC, u.id ASC
		LIMIT $2 OFFSET $3
	`, excludeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.UserView{}
	for rows.Next() {
		var v model.UserView
		if err := rows.Scan(
			&v.ID,
			&v.Username,
			&v.PasswordHash,
			&v.IsActive,
			&v.ShortBiography,
			&v.BirthDate,
			&v.Country,
			&v.City,
			&v.CreatedAt,
			&v.SubscribersNumber,
		); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
