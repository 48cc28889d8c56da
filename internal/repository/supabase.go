package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

type userRow struct {
	ID int64 `json:"id"`
}

type SupabaseUserStore struct {
	client *supabase.Client
}

func NewSupabaseUserStore(url, key string) (*SupabaseUserStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseUserStore{
		client: client,
	}, nil
}

func (r *SupabaseUserStore) InsertIfAbsent(ctx context.Context, userID int64) error {
	_, _, err := r.client.From("users").Insert(userRow{ID: userID}, true, "id", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save user %d: %w", userID, err)
	}
	return nil
}

func (r *SupabaseUserStore) ListAll(ctx context.Context) ([]int64, error) {
	data, _, err := r.client.From("users").
		Select("id", "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// Close ничего не делает: клиент работает поверх HTTP
func (r *SupabaseUserStore) Close() error {
	return nil
}
