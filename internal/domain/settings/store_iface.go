package settings

import "context"

type StoreAPI interface {
	Get(ctx context.Context, key string) (Setting, error)
	List(ctx context.Context, category string) ([]Setting, error)
	Insert(ctx context.Context, setting Setting) (string, error)
	UpdateValue(ctx context.Context, key, value, actor string) error
	Delete(ctx context.Context, key string) error
}
