package repository

import (
	"context"
	"fmt"

	"github.com/ivanoskov/intake_bot/internal/config"
)

// UserStore - долговременное хранилище идентификаторов пользователей
type UserStore interface {
	InsertIfAbsent(ctx context.Context, userID int64) error
	ListAll(ctx context.Context) ([]int64, error)
	Close() error
}

// Open создаёт хранилище по storage.driver
func Open(ctx context.Context, cfg config.StorageConfig) (UserStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteUserStore(ctx, cfg.DSN)
	case "postgres":
		return NewPostgresUserStore(ctx, cfg.DSN)
	case "redis":
		return NewRedisUserStore(ctx, cfg.Redis)
	case "supabase":
		return NewSupabaseUserStore(cfg.Supabase.URL, cfg.Supabase.Key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
