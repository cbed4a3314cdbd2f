package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SQLUserStore struct {
	db *sql.DB
}

func NewSQLUserStore(db *sql.DB) *SQLUserStore { return &SQLUserStore{db: db} }

var userSortColumns = map[string]string{
	"id":        "id",
	"username":  "username",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

func (s *SQLUserStore) CreateUser(ctx context.Context, u User) (User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, u.Username).Scan(&exists)
	if err == nil {
		return User{}, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	now := time.Now().Unix()
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (username,email,password_hash,role,created_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, string(u.Role), now).Scan(&u.ID)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt = time.Unix(now, 0).UTC()
	return u, nil
}

func (s *SQLUserStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.getUser(ctx, `SELECT id,username,email,password_hash,role,created_at FROM users WHERE username=$1`, username)
}

func (s *SQLUserStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	return s.getUser(ctx, `SELECT id,username,email,password_hash,role,created_at FROM users WHERE id=$1`, id)
}

func (s *SQLUserStore) getUser(ctx context.Context, query string, arg any) (User, error) {
	var (
		u       User
		role    string
		created int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = Role(role)
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func (s *SQLUserStore) ListUsers(ctx context.Context, opts ListOpts) ([]User, error) {
	query := `SELECT id,username,email,password_hash,role,created_at FROM users`
	var (
		where []string
		args  []any
	)
	if opts.ID != 0 {
		args = append(args, opts.ID)
		where = append(where, fmt.Sprintf("id=$%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%", "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("(username LIKE $%d OR email LIKE $%d)", len(args)-1, len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	if col, ok := userSortColumns[opts.SortBy]; ok {
		dir := "ASC"
		if opts.SortOrder == "desc" {
			dir = "DESC"
		}
		query += " ORDER BY " + col + " " + dir
	}
	if opts.Page > 0 && opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, (opts.Page-1)*opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var (
			u       User
			role    string
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &created); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		u.Role = Role(role)
		u.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
