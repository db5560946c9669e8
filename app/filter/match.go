package filter

import "github.com/lysyi3m/bill-comb/app/bill"

// Selector is anything that can report a selection snapshot. Both *State
// and Snapshot implement it.
type Selector interface {
	Snapshot() Snapshot
}

// Filter returns the bills visible under state. A bill is kept when, for
// every category with a selection, it carries at least one selected tag.
// Order is preserved. With no selections the input is returned unchanged.
// Selected tags unknown to the catalog simply match nothing.
func Filter(bills []bill.Bill, state Selector) []bill.Bill {
	if bills == nil {
		return []bill.Bill{}
	}

	snapshot := state.Snapshot()
	if snapshot.IsEmpty() {
		return bills
	}

	visible := make([]bill.Bill, 0, len(bills))
	for _, b := range bills {
		if matches(b, snapshot) {
			visible = append(visible, b)
		}
	}
	return visible
}

func matches(b bill.Bill, snapshot Snapshot) bool {
	for _, selection := range snapshot {
		if !intersects(b, selection) {
			return false
		}
	}
	return true
}

func intersects(b bill.Bill, selection Selection) bool {
	for tag := range selection {
		if b.HasTag(tag) {
			return true
		}
	}
	return false
}

// CountTags counts how many bills carry each tag.
func CountTags(bills []bill.Bill) map[string]int {
	counts := make(map[string]int)
	for _, b := range bills {
		for _, tag := range b.Tags() {
			counts[tag]++
		}
	}
	return counts
}
