package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KaitoZan/fnm-dashboard/internal/models"
)

// UpsertUser inserts or updates a user profile by OIDC subject and fills in
// the generated fields.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO user_profiles (sub, user_name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE
		SET user_name = EXCLUDED.user_name, email = EXCLUDED.email, avatar_url = EXCLUDED.avatar_url
		RETURNING id, role, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		user.Sub, user.UserName, user.Email, user.AvatarURL,
	).Scan(&user.ID, &user.Role, &user.CreatedAt)
}

// GetUserBySub retrieves a user profile by OIDC subject.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	return d.getUser(ctx, `WHERE sub = $1`, sub)
}

// GetUserByID retrieves a user profile by id.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.getUser(ctx, `WHERE id = $1`, id)
}

func (d *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := d.Pool.QueryRow(ctx, `
		SELECT id, sub, user_name, email, avatar_url, phone_no, location, role, created_at
		FROM user_profiles `+where, arg).Scan(
		&user.ID, &user.Sub, &user.UserName, &user.Email,
		&user.AvatarURL, &user.PhoneNo, &user.Location, &user.Role, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all user profiles, newest first.
func (d *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, sub, user_name, email, avatar_url, phone_no, location, role, created_at
		FROM user_profiles
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Sub, &user.UserName, &user.Email,
			&user.AvatarURL, &user.PhoneNo, &user.Location, &user.Role, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUserRole changes a user's role. The role must be a known role
// string; unknown roles fail before any write.
func (d *DB) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	result, err := d.Pool.Exec(ctx, `
		UPDATE user_profiles SET role = $1 WHERE id = $2
	`, role, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user profile. Owned restaurants and authored
// comments survive with their references set to null; the user's own edit
// requests and notifications cascade away.
func (d *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
