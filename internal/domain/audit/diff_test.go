package audit

import (
	"reflect"
	"testing"
)

func TestDiffReportsChangedKeysOnly(t *testing.T) {
	oldData := map[string]any{"a": 1, "b": 2}
	newData := map[string]any{"a": 1, "b": 3}

	changes := Diff(oldData, newData)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	change, ok := changes["b"]
	if !ok {
		t.Fatal("expected change for key b")
	}
	if change.Old != 2 || change.New != 3 {
		t.Fatalf("unexpected change: %+v", change)
	}
}

func TestDiffIgnoresKeysMissingFromEitherSide(t *testing.T) {
	oldData := map[string]any{"a": 1, "removed": true}
	newData := map[string]any{"a": 1, "added": true}

	if changes := Diff(oldData, newData); changes != nil {
		t.Fatalf("expected no changes, got %v", changes)
	}
}

func TestDiffNilInputs(t *testing.T) {
	if changes := Diff(nil, map[string]any{"a": 1}); changes != nil {
		t.Fatalf("expected nil for missing old data, got %v", changes)
	}
	if changes := Diff(map[string]any{"a": 1}, nil); changes != nil {
		t.Fatalf("expected nil for missing new data, got %v", changes)
	}
}

func TestDiffNestedValues(t *testing.T) {
	oldData := map[string]any{"tags": []any{"x"}, "n": map[string]any{"v": 1}}
	newData := map[string]any{"tags": []any{"x", "y"}, "n": map[string]any{"v": 1}}

	changes := Diff(oldData, newData)
	want := map[string]Change{"tags": {Old: []any{"x"}, New: []any{"x", "y"}}}
	if !reflect.DeepEqual(changes, want) {
		t.Fatalf("expected %v, got %v", want, changes)
	}
}
