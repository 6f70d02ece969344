package postgres

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"
)

const (
	selectAdminConfig = `SELECT key, value, COALESCE(description, ''), updated_at FROM admin_configs WHERE key = $1`

	selectAdminConfigs = `SELECT key, value, COALESCE(description, ''), updated_at FROM admin_configs ORDER BY key`

	upsertAdminConfig = `INSERT INTO admin_configs (key, value, description, updated_at) VALUES ($1, $2, $3, $4)
	                     ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`
)

type adminConfigRepository struct {
	db repository.DBTX
}

func NewAdminConfigRepository(db repository.DBTX) repository.AdminConfigRepository {
	return &adminConfigRepository{db: db}
}

func (r *adminConfigRepository) Get(ctx context.Context, key string) (*domain.AdminConfig, error) {
	c := &domain.AdminConfig{}
	err := r.db.QueryRowContext(ctx, selectAdminConfig, key).Scan(&c.Key, &c.Value, &c.Description, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Config not found")
	}
	return c, nil
}

func (r *adminConfigRepository) List(ctx context.Context) ([]domain.AdminConfig, error) {
	rows, err := r.db.QueryContext(ctx, selectAdminConfigs)
	if err != nil {
		return nil, fmt.Errorf("list admin configs: %w", err)
	}
	defer rows.Close()

	var list []domain.AdminConfig
	for rows.Next() {
		var c domain.AdminConfig
		if err := rows.Scan(&c.Key, &c.Value, &c.Description, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *adminConfigRepository) Upsert(ctx context.Context, c *domain.AdminConfig) error {
	c.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, upsertAdminConfig, c.Key, c.Value, c.Description, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert admin config: %w", err)
	}
	return nil
}
