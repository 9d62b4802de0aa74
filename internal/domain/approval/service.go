package approval

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Submit queues a requested mutation for checker review. The request holds
// a snapshot of the desired state; nothing is written to the target entity
// until a checker approves and the caller applies the change.
func (s *Service) Submit(ctx context.Context, submission Submission) (string, error) {
	switch submission.Operation {
	case OperationCreate, OperationUpdate, OperationDelete:
	default:
		return "", ErrInvalidOperation
	}
	submission.EntityType = strings.TrimSpace(submission.EntityType)
	if submission.EntityType == "" {
		return "", ErrInvalidOperation
	}
	if emptyJSON(submission.RequestData) {
		return "", ErrMissingRequest
	}
	// UPDATE and DELETE decisions are made against the state being replaced,
	// so the maker must attach a snapshot of it.
	if submission.Operation != OperationCreate && emptyJSON(submission.CurrentData) {
		return "", ErrMissingCurrent
	}
	return s.store.Insert(ctx, submission)
}

func emptyJSON(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func (s *Service) Get(ctx context.Context, id string) (Request, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status, entityType string, limit, offset int) ([]Request, int, error) {
	total, err := s.store.Count(ctx, status, entityType)
	if err != nil {
		return nil, 0, err
	}
	requests, err := s.store.List(ctx, status, entityType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Approve marks a pending request approved. Approval records the decision
// only; applying the approved mutation is a separate step performed by the
// caller against the entity endpoints.
func (s *Service) Approve(ctx context.Context, id, checker, comment string) (Request, error) {
	return s.store.Decide(ctx, id, StatusApproved, checker, comment)
}

func (s *Service) Reject(ctx context.Context, id, checker, comment string) (Request, error) {
	return s.store.Decide(ctx, id, StatusRejected, checker, comment)
}
