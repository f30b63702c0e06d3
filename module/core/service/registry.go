package service

import (
	"fmt"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

// Registry holds the runtime POIs in configured order: areas first, then stickers.
type Registry struct {
	areas    []domain.AreaPOI
	stickers []domain.StickerPOI
	points   []*domain.POI
}

func NewRegistry(areas []domain.AreaPOI, stickers []domain.StickerPOI) *Registry {
	r := &Registry{areas: areas, stickers: stickers}
	r.Reset()
	return r
}

// Reset rebuilds the runtime POIs from configuration with every flag cleared.
func (r *Registry) Reset() {
	points := make([]*domain.POI, 0, len(r.areas)+len(r.stickers))
	for _, a := range r.areas {
		points = append(points, &domain.POI{
			Kind:     domain.KindArea,
			Lat:      a.Lat,
			Lon:      a.Lon,
			Message:  a.Message,
			AreaName: a.AreaName,
		})
	}
	for _, s := range r.stickers {
		points = append(points, &domain.POI{
			Kind:         domain.KindSticker,
			Lat:          s.Lat,
			Lon:          s.Lon,
			Message:      s.Message,
			AreaName:     s.AreaName,
			StickerIndex: s.StickerIndex,
		})
	}
	r.points = points
}

func (r *Registry) Len() int {
	return len(r.points)
}

// Points returns the runtime POIs in configured order.
func (r *Registry) Points() []*domain.POI {
	return r.points
}

// FirstInRange returns the first POI in configured order within radius of pos.
// Configuration order wins over proximity.
func (r *Registry) FirstInRange(pos domain.Position, radius float64) (*domain.POI, bool) {
	for _, p := range r.points {
		if Distance(pos.Lat, pos.Lon, p.Lat, p.Lon) <= radius {
			return p, true
		}
	}
	return nil, false
}

// ResetAreaTriggersOutsideRadius re-arms every area not within radius of pos.
// Sticker flags are left untouched.
func (r *Registry) ResetAreaTriggersOutsideRadius(pos domain.Position, radius float64) {
	for _, p := range r.points {
		if p.IsSticker() {
			continue
		}
		if Distance(pos.Lat, pos.Lon, p.Lat, p.Lon) > radius {
			p.Triggered = false
		}
	}
}

// Areas lists the distinct configured area names in configuration order.
func (r *Registry) Areas() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, a := range r.areas {
		add(a.AreaName)
	}
	for _, s := range r.stickers {
		add(s.AreaName)
	}
	return out
}

// HasArea reports whether an AreaPOI is configured under name.
func (r *Registry) HasArea(name string) bool {
	for _, a := range r.areas {
		if a.AreaName == name {
			return true
		}
	}
	return false
}

// Validate reports stickers whose area has no AreaPOI configured.
func (r *Registry) Validate() []error {
	var errs []error
	for _, s := range r.stickers {
		if !r.HasArea(s.AreaName) {
			errs = append(errs, fmt.Errorf("%w: sticker %d references unknown area %q", domain.ErrConfigurationGap, s.StickerIndex, s.AreaName))
		}
	}
	return errs
}
