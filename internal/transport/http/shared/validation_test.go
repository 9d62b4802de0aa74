package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "  ", "name is required")
	v.Month("month", 13)
	v.Year("year", 1900)

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted by field: %v", issues)
		}
	}
}

func TestValidatorEnumNormalizes(t *testing.T) {
	v := NewValidator()
	v.Enum("type", " Family4 ", []string{"employee", "family4"}, "unknown value")
	if v.HasIssues() {
		t.Fatalf("case/space-insensitive match should pass: %v", v.Issues())
	}

	v.Enum("type", "other", []string{"employee", "family4"}, "unknown value")
	if !v.HasIssues() {
		t.Fatal("unknown enum value must be rejected")
	}
}

func TestValidatorDateAcceptsBothFormats(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("start", "2025-06-01"); !ok {
		t.Fatal("plain date should parse")
	}
	if _, ok := v.Date("end", "2025-06-01T10:30:00Z"); !ok {
		t.Fatal("RFC3339 should parse")
	}
	if _, ok := v.Date("bad", "June 1"); ok {
		t.Fatal("garbage date should fail")
	}
	if !v.HasIssues() {
		t.Fatal("failed date parse must register an issue")
	}
}

func TestRejectWritesValidationEnvelope(t *testing.T) {
	v := NewValidator()
	v.Add("amount", "must be greater than zero")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("Reject should report true when issues exist")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	clean := NewValidator()
	rec = httptest.NewRecorder()
	if clean.Reject(rec, "req-2") {
		t.Fatal("Reject should be a no-op without issues")
	}
}
