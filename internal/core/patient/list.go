package patient

import (
	"fmt"
	"slices"
	"strings"
)

// SortMode selects how a patient list is ordered for display.
type SortMode string

const (
	// SortCustom keeps insertion (or explicitly reordered) order.
	SortCustom SortMode = "custom"
	// SortName orders by raw name, case-insensitive.
	SortName SortMode = "name"
	// SortLocation orders by location, empty locations last.
	SortLocation SortMode = "location"
)

// ParseSortMode validates a sort mode name.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(s)) {
	case "", SortCustom:
		return SortCustom, nil
	case SortName:
		return SortName, nil
	case SortLocation:
		return SortLocation, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want custom, name, or location)", s)
}

// Sorted returns a sorted copy of list. SortCustom returns the list in its
// existing order.
func Sorted(list []Patient, mode SortMode) []Patient {
	out := slices.Clone(list)
	switch mode {
	case SortName:
		slices.SortStableFunc(out, func(a, b Patient) int {
			return strings.Compare(strings.ToLower(a.RawName), strings.ToLower(b.RawName))
		})
	case SortLocation:
		slices.SortStableFunc(out, func(a, b Patient) int {
			al, bl := strings.ToLower(a.Location), strings.ToLower(b.Location)
			switch {
			case al == "" && bl == "":
				return 0
			case al == "":
				return 1
			case bl == "":
				return -1
			}
			return strings.Compare(al, bl)
		})
	}
	return out
}

// Search returns the patients whose raw name, MRN, or location contains term,
// case-insensitively. An empty term matches everything.
func Search(list []Patient, term string) []Patient {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(list)
	}
	var out []Patient
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.RawName), term) ||
			strings.Contains(strings.ToLower(p.MRN), term) ||
			strings.Contains(strings.ToLower(p.Location), term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterNew returns the incoming patients that are not yet represented in
// existing, matching by id and by MRN. Duplicates within incoming are
// dropped too, so applying the result twice adds nothing the second time.
func FilterNew(existing, incoming []Patient) []Patient {
	ids := make(map[string]bool, len(existing))
	mrns := make(map[string]bool, len(existing))
	for _, p := range existing {
		ids[p.ID] = true
		if p.MRN != "" {
			mrns[p.MRN] = true
		}
	}

	var out []Patient
	for _, p := range incoming {
		if ids[p.ID] || (p.MRN != "" && mrns[p.MRN]) {
			continue
		}
		ids[p.ID] = true
		if p.MRN != "" {
			mrns[p.MRN] = true
		}
		out = append(out, p)
	}
	return out
}

// Reorder returns list rearranged to follow ids. Every id in list must appear
// exactly once in ids.
func Reorder(list []Patient, ids []string) ([]Patient, error) {
	if len(ids) != len(list) {
		return nil, fmt.Errorf("reorder needs %d ids, got %d", len(list), len(ids))
	}
	out := make([]Patient, 0, len(list))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("id %s listed twice", id)
		}
		seen[id] = true
		i := IndexOf(list, id)
		if i < 0 {
			return nil, fmt.Errorf("id %s is not in the list", id)
		}
		out = append(out, list[i])
	}
	return out, nil
}
