package approval

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, submission Submission) (string, error)
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, status, entityType string, limit, offset int) ([]Request, error)
	Count(ctx context.Context, status, entityType string) (int, error)
	// Decide transitions a pending request to the given terminal status.
	// The row is re-read under a row lock; a non-pending row fails with
	// ErrAlreadyProcessed and is left untouched.
	Decide(ctx context.Context, id, status, checker, comment string) (Request, error)
}
