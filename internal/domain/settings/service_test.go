package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryStore struct {
	rows map[string]Setting
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]Setting)}
}

func (m *memoryStore) Get(ctx context.Context, key string) (Setting, error) {
	setting, ok := m.rows[key]
	if !ok {
		return Setting{}, ErrNotFound
	}
	return setting, nil
}

func (m *memoryStore) List(ctx context.Context, category string) ([]Setting, error) {
	var out []Setting
	for _, setting := range m.rows {
		if category == "" || setting.Category == category {
			out = append(out, setting)
		}
	}
	return out, nil
}

func (m *memoryStore) Insert(ctx context.Context, setting Setting) (string, error) {
	if _, ok := m.rows[setting.Key]; ok {
		return "", ErrDuplicateKey
	}
	m.rows[setting.Key] = setting
	return setting.Key, nil
}

func (m *memoryStore) UpdateValue(ctx context.Context, key, value, actor string) error {
	setting, ok := m.rows[key]
	if !ok {
		return ErrNotFound
	}
	setting.Value = value
	setting.UpdatedBy = actor
	setting.UpdatedAt = time.Now()
	m.rows[key] = setting
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	if _, ok := m.rows[key]; !ok {
		return ErrNotFound
	}
	delete(m.rows, key)
	return nil
}

func TestTypedAccessorsFallBack(t *testing.T) {
	store := newMemoryStore()
	store.rows["n.ok"] = Setting{Key: "n.ok", Value: "2.5", DataType: DataTypeNumber, IsEditable: true}
	store.rows["n.bad"] = Setting{Key: "n.bad", Value: "not-a-number", DataType: DataTypeNumber, IsEditable: true}
	store.rows["b.ok"] = Setting{Key: "b.ok", Value: "true", DataType: DataTypeBoolean, IsEditable: true}
	service := NewService(store)
	ctx := context.Background()

	if got := service.GetNumber(ctx, "n.ok", 9); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if got := service.GetNumber(ctx, "n.bad", 9); got != 9 {
		t.Fatalf("expected fallback 9 for unparseable value, got %v", got)
	}
	if got := service.GetNumber(ctx, "missing", 7); got != 7 {
		t.Fatalf("expected fallback 7 for missing key, got %v", got)
	}
	if got := service.GetBool(ctx, "b.ok", false); !got {
		t.Fatal("expected true")
	}
	if got := service.GetBool(ctx, "missing", true); !got {
		t.Fatal("expected fallback true for missing key")
	}
}

func TestUpdateRejectsNotEditable(t *testing.T) {
	store := newMemoryStore()
	store.rows["locked"] = Setting{Key: "locked", Value: "1", DataType: DataTypeNumber, IsEditable: false}
	service := NewService(store)

	_, _, err := service.Update(context.Background(), "locked", "2", "tester")
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
	if store.rows["locked"].Value != "1" {
		t.Fatal("value must be unchanged after rejected update")
	}
}

func TestUpdateReturnsStoredRow(t *testing.T) {
	store := newMemoryStore()
	stamped := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.rows["k"] = Setting{Key: "k", Value: "1", DataType: DataTypeNumber, IsEditable: true, UpdatedAt: stamped}
	service := NewService(store)

	before, after, err := service.Update(context.Background(), "k", "2", "tester")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if before.Value != "1" || !before.UpdatedAt.Equal(stamped) {
		t.Fatalf("before must be the prior row, got %+v", before)
	}
	if after.Value != "2" || after.UpdatedBy != "tester" {
		t.Fatalf("after must carry the new value and actor, got %+v", after)
	}
	if !after.UpdatedAt.After(stamped) {
		t.Fatalf("after must carry the store's updated_at, got %v", after.UpdatedAt)
	}
}

func TestDeleteRejectsNotEditable(t *testing.T) {
	store := newMemoryStore()
	store.rows["locked"] = Setting{Key: "locked", Value: "1", IsEditable: false}
	service := NewService(store)

	if _, err := service.Delete(context.Background(), "locked"); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
	if _, ok := store.rows["locked"]; !ok {
		t.Fatal("row must survive rejected delete")
	}
}

func TestCreateDuplicateKey(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()

	if _, err := service.Create(ctx, Setting{Key: "k", Value: "v", IsEditable: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Create(ctx, Setting{Key: "k", Value: "v2", IsEditable: true}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestValidateDefaults(t *testing.T) {
	store := newMemoryStore()
	for _, def := range Defaults() {
		store.rows[def.Key] = Setting{Key: def.Key, Value: def.Value, DataType: def.DataType, Category: def.Category, IsEditable: def.IsEditable}
	}
	service := NewService(store)

	if err := service.ValidateDefaults(context.Background()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	broken := store.rows["reminders.due_soon_days"]
	broken.Value = "three"
	store.rows["reminders.due_soon_days"] = broken
	if err := service.ValidateDefaults(context.Background()); err == nil {
		t.Fatal("expected validation failure for unparseable number")
	}
}
