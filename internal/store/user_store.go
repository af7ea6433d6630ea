package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	users "github.com/nileshk/digital-whiteboard/internal/user"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery        = "SELECT * FROM users WHERE id = ?"
	getUserByEmailQuery = "SELECT * FROM users WHERE email = ?"
	createUserQuery     = `
		INSERT INTO users (id, name, email, image, provider, last_login) VALUES
		(:id, :name, :email, :image, :provider, :last_login)
	`
	updateUserQuery = `
		UPDATE users SET
		name = :name,
		image = :image,
		provider = :provider,
		last_login = :last_login,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByEmailQuery, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return err
}

func (s *UserStore) UpdateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, updateUserQuery, user)
	return err
}
