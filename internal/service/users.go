package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ivanoskov/intake_bot/internal/metrics"
	"go.uber.org/zap"
)

// UserDirectory хранит множество всех пользователей, когда-либо писавших боту.
// Значение в карте - сохранён ли пользователь в хранилище.
type UserDirectory struct {
	store UserStore
	log   *zap.Logger

	mu  sync.RWMutex
	ids map[int64]bool
}

func NewUserDirectory(store UserStore, log *zap.Logger) *UserDirectory {
	return &UserDirectory{
		store: store,
		log:   log,
		ids:   make(map[int64]bool),
	}
}

// Load загружает пользователей из хранилища. Вызывается до обработки событий.
func (d *UserDirectory) Load(ctx context.Context) error {
	ids, err := d.store.ListAll(ctx)
	if err != nil {
		metrics.UserStoreErrors.WithLabelValues("list").Inc()
		return fmt.Errorf("failed to load users: %w", err)
	}

	d.mu.Lock()
	for _, id := range ids {
		d.ids[id] = true
	}
	d.mu.Unlock()

	d.log.Info("users loaded", zap.Int("count", len(ids)))
	return nil
}

// Remember запоминает пользователя. Ошибка хранилища только логируется:
// пользователь остаётся в памяти, запись повторится при следующем обращении.
func (d *UserDirectory) Remember(ctx context.Context, userID int64) {
	d.mu.Lock()
	persisted, known := d.ids[userID]
	if !known {
		d.ids[userID] = false
	}
	d.mu.Unlock()

	if persisted {
		return
	}

	if err := d.store.InsertIfAbsent(ctx, userID); err != nil {
		metrics.UserStoreErrors.WithLabelValues("insert").Inc()
		d.log.Error("failed to persist user", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	d.mu.Lock()
	d.ids[userID] = true
	d.mu.Unlock()

	if !known {
		d.log.Info("new user", zap.Int64("user_id", userID))
	}
}

// All возвращает снимок идентификаторов по возрастанию
func (d *UserDirectory) All() []int64 {
	d.mu.RLock()
	ids := make([]int64, 0, len(d.ids))
	for id := range d.ids {
		ids = append(ids, id)
	}
	d.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (d *UserDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ids)
}
