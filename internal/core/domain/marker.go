package domain

import (
	"fmt"
	"sort"
)

// Tier is a marker's rendering-priority class. Higher tiers draw on top
// when markers overlap.
type Tier int

const (
	TierEvent Tier = iota
	TierResult
	TierUser
	TierSelected
)

var tierNames = map[Tier]string{
	TierEvent:    "event",
	TierResult:   "result",
	TierUser:     "user",
	TierSelected: "selected",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// Color is the fixed fill colour for the tier.
func (t Tier) Color() string {
	switch t {
	case TierUser:
		return "#1E88E5"
	case TierSelected:
		return "#E53935"
	case TierResult:
		return "#8E24AA"
	default:
		return "#FB8C00"
	}
}

// ZIndex is the stacking order used by both map backends.
func (t Tier) ZIndex() int {
	return int(t+1) * 100
}

// MarshalText lets tiers travel as names in JSON.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	for k, v := range tierNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown marker tier %q", b)
}

// Marker is one point drawn on a map backend.
type Marker struct {
	ID          string      `json:"id"`
	Coordinates Coordinates `json:"coordinates"`
	Label       string      `json:"label"`
	Tier        Tier        `json:"tier"`
}

// SortByTier orders markers lowest tier first so that drawing in slice
// order leaves higher tiers on top. Equal tiers keep their input order.
func SortByTier(markers []Marker) []Marker {
	out := make([]Marker, len(markers))
	copy(out, markers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}
