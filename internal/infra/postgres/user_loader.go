package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"classquiz-service/internal/domain"
)

// UserLoader loads user records from Postgres for seeding the user store.
type UserLoader struct {
	pool *pgxpool.Pool
}

func NewUserLoader(pool *pgxpool.Pool) *UserLoader {
	return &UserLoader{pool: pool}
}

func (l *UserLoader) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
