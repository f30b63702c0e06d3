package domain

import "sort"

// CollectedSet maps an area name to the sticker indices collected there.
// Entries are only ever added.
type CollectedSet map[string]map[int]struct{}

func NewCollectedSet() CollectedSet {
	return CollectedSet{}
}

// Add inserts (area, index) and reports whether it was absent.
func (s CollectedSet) Add(area string, index int) bool {
	indices, ok := s[area]
	if !ok {
		indices = make(map[int]struct{})
		s[area] = indices
	}
	if _, ok := indices[index]; ok {
		return false
	}
	indices[index] = struct{}{}
	return true
}

func (s CollectedSet) Contains(area string, index int) bool {
	_, ok := s[area][index]
	return ok
}

// CountInRange counts collected indices of area within [min, max].
func (s CollectedSet) CountInRange(area string, min, max int) int {
	count := 0
	for idx := range s[area] {
		if idx >= min && idx <= max {
			count++
		}
	}
	return count
}

// Indices returns the sorted collected indices of area.
func (s CollectedSet) Indices(area string) []int {
	out := make([]int, 0, len(s[area]))
	for idx := range s[area] {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (s CollectedSet) Len() int {
	n := 0
	for _, indices := range s {
		n += len(indices)
	}
	return n
}

func (s CollectedSet) Clone() CollectedSet {
	out := make(CollectedSet, len(s))
	for area, indices := range s {
		cp := make(map[int]struct{}, len(indices))
		for idx := range indices {
			cp[idx] = struct{}{}
		}
		out[area] = cp
	}
	return out
}

// Equal compares two sets, treating an area with no indices as absent.
func (s CollectedSet) Equal(other CollectedSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for area, indices := range s {
		for idx := range indices {
			if !other.Contains(area, idx) {
				return false
			}
		}
	}
	return true
}

// CollectionRecord is the persisted form of a CollectedSet.
type CollectionRecord struct {
	Areas []AreaCollection `json:"areas"`
}

type AreaCollection struct {
	AreaName       string `json:"areaName"`
	StickerIndices []int  `json:"stickerIndices"`
}

// Record converts the set into its persisted form with areas and indices sorted.
func (s CollectedSet) Record() CollectionRecord {
	areas := make([]string, 0, len(s))
	for area, indices := range s {
		if len(indices) == 0 {
			continue
		}
		areas = append(areas, area)
	}
	sort.Strings(areas)

	rec := CollectionRecord{Areas: make([]AreaCollection, 0, len(areas))}
	for _, area := range areas {
		rec.Areas = append(rec.Areas, AreaCollection{
			AreaName:       area,
			StickerIndices: s.Indices(area),
		})
	}
	return rec
}

func (r CollectionRecord) Set() CollectedSet {
	s := NewCollectedSet()
	for _, a := range r.Areas {
		for _, idx := range a.StickerIndices {
			s.Add(a.AreaName, idx)
		}
	}
	return s
}
