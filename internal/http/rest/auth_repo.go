package rest

import (
	"context"
	"errors"

	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound reports a lookup miss so callers can keep it apart from
// store failures.
var ErrUserNotFound = errors.New("user not found")

type UserStore interface {
	UpsertGoogleUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

type PGUserStore struct {
	DB *pgxpool.Pool
}

// UpsertGoogleUser creates the user on first login and refreshes the
// profile fields on every subsequent one, matched on the Google subject.
func (s *PGUserStore) UpsertGoogleUser(ctx context.Context, user model.User) (model.User, error) {
	stmt := `INSERT INTO users (id, google_id, name, email, auth_provider, is_verified, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (google_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			is_verified = EXCLUDED.is_verified,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, google_id, name, email, auth_provider, is_verified, avatar_url, created_at, updated_at`

	var saved model.User
	err := s.DB.QueryRow(ctx, stmt,
		user.ID, user.GoogleID, user.Name, user.Email, user.AuthProvider, user.IsVerified, user.AvatarURL,
	).Scan(
		&saved.ID, &saved.GoogleID, &saved.Name, &saved.Email, &saved.AuthProvider,
		&saved.IsVerified, &saved.AvatarURL, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	return saved, nil
}

func (s *PGUserStore) GetUserByID(ctx context.Context, id string) (model.User, error) {
	stmt := `SELECT id, google_id, name, email, auth_provider, is_verified, avatar_url, created_at, updated_at
		FROM users WHERE id = $1`

	var user model.User
	err := s.DB.QueryRow(ctx, stmt, id).Scan(
		&user.ID, &user.GoogleID, &user.Name, &user.Email, &user.AuthProvider,
		&user.IsVerified, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
