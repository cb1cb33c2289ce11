package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/homestay-console/backend/internal/models"
)

// ErrDuplicateUsername is returned when creating a user whose username is
// already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository stores the console's operator accounts.
type UserRepository struct {
	BaseRepository
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new operator account, assigning its ID and creation time.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = GenerateID()
	user.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO users (id, username, role, created_at) VALUES (?, ?, ?, ?)
	`, user.ID, user.Username, user.Role, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// List returns all operator accounts ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, username, role, created_at FROM users ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get returns one operator account by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, username, role, created_at FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// UpdateRole changes an account's role. Returns false when no row matched.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	result, err := r.DB().ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return false, fmt.Errorf("updating user role: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// Delete removes an account by ID. Returns false when no row matched.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}
