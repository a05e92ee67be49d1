package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/shared"
)

// UserRepository persists backend users [models.User].
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with a generated ID and sequence.
//
// The email is normalized before insert. An existing live user with the same email yields [shared.ErrUserExists].
func (r *UserRepository) Create(email, name string) (*models.User, error) {
	email = shared.NormalizeEmail(email)
	if !shared.ValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, email)
	}

	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	user := &models.User{ID: shared.GenerateID(), Email: email, Name: name}
	now := time.Now()

	query := `
		INSERT INTO users (id, sequence, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, user.ID, sequence, user.Email, user.Name, now, now); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrUserExists, email)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, email, name FROM users WHERE id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByEmail retrieves a live user by normalized email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	email = shared.NormalizeEmail(email)
	query := `
		SELECT id, email, name FROM users WHERE email = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, email), email)
}

func (r *UserRepository) scanOne(row *sql.Row, key string) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	query := `
		UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}
