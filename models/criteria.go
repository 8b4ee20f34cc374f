package models

import (
	"fmt"
	"sort"
	"strings"
)

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether Min <= v <= Max.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// FloatRange is an inclusive numeric range.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= v <= Max.
func (r FloatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterCriteria is the set of constraints a listing must satisfy to be shown.
type FilterCriteria struct {
	Cities   []string   `json:"cities"`
	Rooms    IntRange   `json:"rooms"`
	Bathroom IntRange   `json:"bathroom"`
	Animals  []string   `json:"animals"`
	Price    FloatRange `json:"price"`
}

// Matches reports whether l passes all five predicates.
func (c FilterCriteria) Matches(l Listing) bool {
	return contains(c.Cities, l.City) &&
		c.Rooms.Contains(l.Rooms) &&
		c.Bathroom.Contains(l.Bathroom) &&
		contains(c.Animals, l.Animal) &&
		c.Price.Contains(l.RentAmount)
}

// Key returns a canonical string for the criteria, independent of the order
// in which set members were given.
func (c FilterCriteria) Key() string {
	return fmt.Sprintf("c=%s|r=%d-%d|b=%d-%d|a=%s|p=%g-%g",
		sortedJoin(c.Cities), c.Rooms.Min, c.Rooms.Max,
		c.Bathroom.Min, c.Bathroom.Max,
		sortedJoin(c.Animals), c.Price.Min, c.Price.Max)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func sortedJoin(items []string) string {
	cp := append([]string(nil), items...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
