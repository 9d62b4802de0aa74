package approval

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"
)

type memoryStore struct {
	rows   map[string]Request
	nextID int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]Request), nextID: 1}
}

func (m *memoryStore) Insert(ctx context.Context, submission Submission) (string, error) {
	id := "req-" + strconv.Itoa(m.nextID)
	m.nextID++
	m.rows[id] = Request{
		ID:           id,
		EntityType:   submission.EntityType,
		EntityID:     submission.EntityID,
		Operation:    submission.Operation,
		RequestData:  submission.RequestData,
		CurrentData:  submission.CurrentData,
		Status:       StatusPending,
		Maker:        submission.Maker,
		MakerComment: submission.MakerComment,
		RequestedAt:  time.Now(),
	}
	return id, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Request, error) {
	req, ok := m.rows[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (m *memoryStore) List(ctx context.Context, status, entityType string, limit, offset int) ([]Request, error) {
	var out []Request
	for _, req := range m.rows {
		if (status == "" || req.Status == status) && (entityType == "" || req.EntityType == entityType) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *memoryStore) Count(ctx context.Context, status, entityType string) (int, error) {
	list, _ := m.List(ctx, status, entityType, 0, 0)
	return len(list), nil
}

func (m *memoryStore) Decide(ctx context.Context, id, status, checker, comment string) (Request, error) {
	req, ok := m.rows[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return req, ErrAlreadyProcessed
	}
	now := time.Now()
	req.Status = status
	req.Checker = checker
	req.CheckerComment = comment
	req.CheckedAt = &now
	m.rows[id] = req
	return req, nil
}

func submitTestRequest(t *testing.T, service *Service) string {
	t.Helper()
	id, err := service.Submit(context.Background(), Submission{
		EntityType:  "expense",
		Operation:   OperationUpdate,
		RequestData: json.RawMessage(`{"amount":150}`),
		CurrentData: json.RawMessage(`{"amount":100}`),
		Maker:       "maker@example.com",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return id
}

func TestApproveTransitionsOnce(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()
	id := submitTestRequest(t, service)

	decided, err := service.Approve(ctx, id, "checker@example.com", "looks right")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != StatusApproved || decided.Checker != "checker@example.com" {
		t.Fatalf("unexpected decision: %+v", decided)
	}

	if _, err := service.Approve(ctx, id, "other@example.com", ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if _, err := service.Reject(ctx, id, "other@example.com", ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}

	final, _ := service.Get(ctx, id)
	if final.Status != StatusApproved {
		t.Fatalf("status must stay approved, got %s", final.Status)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)
	ctx := context.Background()
	id := submitTestRequest(t, service)

	if _, err := service.Reject(ctx, id, "checker@example.com", "amount mismatch"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := service.Approve(ctx, id, "checker@example.com", ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed after reject, got %v", err)
	}
}

func TestSubmitRejectsUnknownOperation(t *testing.T) {
	service := NewService(newMemoryStore())
	_, err := service.Submit(context.Background(), Submission{
		EntityType:  "expense",
		Operation:   "UPSERT",
		RequestData: json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestSubmitRequiresRequestData(t *testing.T) {
	service := NewService(newMemoryStore())
	for _, raw := range []json.RawMessage{nil, json.RawMessage(""), json.RawMessage("null")} {
		_, err := service.Submit(context.Background(), Submission{
			EntityType:  "expense",
			Operation:   OperationCreate,
			RequestData: raw,
		})
		if !errors.Is(err, ErrMissingRequest) {
			t.Fatalf("requestData %q: expected ErrMissingRequest, got %v", raw, err)
		}
	}
}

func TestSubmitRequiresCurrentDataForMutations(t *testing.T) {
	service := NewService(newMemoryStore())
	for _, op := range []string{OperationUpdate, OperationDelete} {
		_, err := service.Submit(context.Background(), Submission{
			EntityType:  "expense",
			EntityID:    "exp-1",
			Operation:   op,
			RequestData: json.RawMessage(`{"amount":150}`),
		})
		if !errors.Is(err, ErrMissingCurrent) {
			t.Fatalf("%s without currentData: expected ErrMissingCurrent, got %v", op, err)
		}
	}

	// A create has no prior state to snapshot.
	if _, err := service.Submit(context.Background(), Submission{
		EntityType:  "expense",
		Operation:   OperationCreate,
		RequestData: json.RawMessage(`{"amount":150}`),
	}); err != nil {
		t.Fatalf("create without currentData: %v", err)
	}
}

func TestSubmitRequiresEntityType(t *testing.T) {
	service := NewService(newMemoryStore())
	_, err := service.Submit(context.Background(), Submission{
		Operation:   OperationCreate,
		RequestData: json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}
