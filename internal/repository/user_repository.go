package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
	"github.com/f4ithlin/ECE464CooperBooker/internal/utils"
)

// ErrUserExists is returned when the username or email is taken.
var ErrUserExists = errors.New("username or email already exists")

// UserRepo mirrors the 'users' table. It implements booking.UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, user_name, password_hash, access_type, email, created_at, updated_at`

// Create inserts a user with a bcrypt-hashed credential and returns
// its ID. Plain passwords are never stored.
func (r *UserRepo) Create(ctx context.Context, userName, password, accessType, email string, cost int) (uint64, error) {
	userName = strings.TrimSpace(userName)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (user_name, password_hash, access_type, email) VALUES (?,?,?,?)",
		userName, hash, accessType, email)
	if err != nil {
		// MySQL duplicate-key error code.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by login name, returning
// booking.ErrUserNotFound when absent.
func (r *UserRepo) GetByUsername(ctx context.Context, userName string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_name=? LIMIT 1",
		strings.TrimSpace(userName)).
		Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.AccessType, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id, returning booking.ErrUserNotFound when
// absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.AccessType, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
