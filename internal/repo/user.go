package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rndrianasolo/commercepro/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"role", "phone", "is_active", "store_id",
}

type userRepo struct {
	postgresRepo
}

func NewUserRepo(db *sqlx.DB) *userRepo {
	return &userRepo{newBase(db)}
}

func (r *userRepo) SaveUser(ctx context.Context, u entities.User, passwordHash string) error {
	query, args := r.qb.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, passwordHash, u.FirstName, nullString(u.LastName),
			string(u.Role), nullString(u.Phone), u.IsActive, nullString(u.StoreID)).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return entities.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, userID string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return UserToEntity(user), nil
}

// GetCredentialsByEmail returns the user and the stored password hash for
// a login attempt.
func (r *userRepo) GetCredentialsByEmail(ctx context.Context, email string) (entities.User, string, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, "", entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	return UserToEntity(user), user.Password, nil
}
