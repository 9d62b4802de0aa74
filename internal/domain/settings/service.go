package settings

import (
	"context"
	"strconv"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, key string) (Setting, error) {
	return s.store.Get(ctx, key)
}

func (s *Service) List(ctx context.Context, category string) ([]Setting, error) {
	return s.store.List(ctx, category)
}

// GetString returns the raw value, or fallback when the key is absent.
func (s *Service) GetString(ctx context.Context, key, fallback string) string {
	setting, err := s.store.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

// GetNumber returns the parsed numeric value, or fallback on a missing key
// or a value that does not parse.
func (s *Service) GetNumber(ctx context.Context, key string, fallback float64) float64 {
	setting, err := s.store.Get(ctx, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(setting.Value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *Service) GetBool(ctx context.Context, key string, fallback bool) bool {
	setting, err := s.store.Get(ctx, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(setting.Value))
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *Service) Create(ctx context.Context, setting Setting) (string, error) {
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.DataType == "" {
		setting.DataType = DataTypeString
	}
	if setting.Category == "" {
		setting.Category = "general"
	}
	return s.store.Insert(ctx, setting)
}

// Update rejects value writes against settings flagged not editable.
func (s *Service) Update(ctx context.Context, key, value, actor string) (Setting, Setting, error) {
	before, err := s.store.Get(ctx, key)
	if err != nil {
		return Setting{}, Setting{}, err
	}
	if !before.IsEditable {
		return Setting{}, Setting{}, ErrNotEditable
	}
	if err := s.store.UpdateValue(ctx, key, value, actor); err != nil {
		return Setting{}, Setting{}, err
	}
	// Re-read so the response and the audit trail carry the stored row,
	// including the updated_at the database assigned.
	after, err := s.store.Get(ctx, key)
	if err != nil {
		return Setting{}, Setting{}, err
	}
	return before, after, nil
}

func (s *Service) Delete(ctx context.Context, key string) (Setting, error) {
	before, err := s.store.Get(ctx, key)
	if err != nil {
		return Setting{}, err
	}
	if !before.IsEditable {
		return Setting{}, ErrNotEditable
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return Setting{}, err
	}
	return before, nil
}

// ValidateDefaults checks that every expected key is present and parseable
// for its declared type. Called once at startup after seeding.
func (s *Service) ValidateDefaults(ctx context.Context) error {
	for _, def := range Defaults() {
		setting, err := s.store.Get(ctx, def.Key)
		if err != nil {
			return err
		}
		switch setting.DataType {
		case DataTypeNumber:
			if _, err := strconv.ParseFloat(strings.TrimSpace(setting.Value), 64); err != nil {
				return err
			}
		case DataTypeBoolean:
			if _, err := strconv.ParseBool(strings.TrimSpace(setting.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}
