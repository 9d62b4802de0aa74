package audit

import "reflect"

type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff returns the keys present in both snapshots whose values differ.
// Keys only one side carries are not reported; the full before/after
// snapshots are stored alongside for those cases.
func Diff(oldData, newData map[string]any) map[string]Change {
	if len(oldData) == 0 || len(newData) == 0 {
		return nil
	}
	changes := make(map[string]Change)
	for key, newVal := range newData {
		oldVal, ok := oldData[key]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			changes[key] = Change{Old: oldVal, New: newVal}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
