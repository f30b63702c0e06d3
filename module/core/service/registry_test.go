package service

import (
	"errors"
	"testing"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

func TestNewRegistry_Order(t *testing.T) {
	r := NewRegistry(
		[]domain.AreaPOI{{AreaName: "Area1"}, {AreaName: "Dossel"}},
		[]domain.StickerPOI{{AreaName: "Area1", StickerIndex: 3}},
	)

	points := r.Points()
	if r.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", r.Len())
	}
	if points[0].AreaName != "Area1" || points[1].AreaName != "Dossel" || !points[2].IsSticker() {
		t.Errorf("unexpected order: %+v %+v %+v", points[0], points[1], points[2])
	}
	for _, p := range points {
		if p.Triggered {
			t.Errorf("expected all flags cleared, got %+v", p)
		}
	}
}

func TestFirstInRange_ConfigOrderWins(t *testing.T) {
	r := NewRegistry(
		// the area is 5m away, the sticker is exactly at the position
		[]domain.AreaPOI{{Lat: 0, Lon: 0.000045, AreaName: "Area1"}},
		[]domain.StickerPOI{{Lat: 0, Lon: 0, AreaName: "Area1", StickerIndex: 3}},
	)

	p, ok := r.FirstInRange(domain.Position{Lat: 0, Lon: 0}, 7)
	if !ok {
		t.Fatal("expected a hit")
	}
	if p.IsSticker() {
		t.Error("expected the area, configured first, to win")
	}
}

func TestFirstInRange_Boundary(t *testing.T) {
	r := NewRegistry([]domain.AreaPOI{{Lat: 0, Lon: 0, AreaName: "Area1"}}, nil)
	d := Distance(0, 0, 0, 0.00003)

	if _, ok := r.FirstInRange(domain.Position{Lat: 0, Lon: 0.00003}, d); !ok {
		t.Error("distance equal to radius must count as inside")
	}
	if _, ok := r.FirstInRange(domain.Position{Lat: 0, Lon: 0.00003}, d-0.01); ok {
		t.Error("expected no hit just outside the radius")
	}
}

func TestResetAreaTriggersOutsideRadius(t *testing.T) {
	r := NewRegistry(
		[]domain.AreaPOI{{Lat: 0, Lon: 0, AreaName: "Near"}, {Lat: 1, Lon: 1, AreaName: "Far"}},
		[]domain.StickerPOI{{Lat: 1, Lon: 1, AreaName: "Far", StickerIndex: 3}},
	)
	for _, p := range r.Points() {
		p.Triggered = true
	}

	r.ResetAreaTriggersOutsideRadius(domain.Position{Lat: 0, Lon: 0}, 7)

	points := r.Points()
	if !points[0].Triggered {
		t.Error("area within radius must stay triggered")
	}
	if points[1].Triggered {
		t.Error("area outside radius must re-arm")
	}
	if !points[2].Triggered {
		t.Error("sticker flags are never cleared")
	}
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry([]domain.AreaPOI{{AreaName: "Area1"}}, nil)
	r.Points()[0].Triggered = true

	r.Reset()
	if r.Points()[0].Triggered {
		t.Error("expected flag cleared after Reset")
	}
}

func TestRegistry_Areas(t *testing.T) {
	r := NewRegistry(
		[]domain.AreaPOI{{AreaName: "Area1"}, {AreaName: "Dossel"}, {AreaName: "Area1"}},
		[]domain.StickerPOI{{AreaName: "Epifitas", StickerIndex: 3}, {AreaName: "Dossel", StickerIndex: 4}},
	)

	got := r.Areas()
	want := []string{"Area1", "Dossel", "Epifitas"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestRegistry_Validate(t *testing.T) {
	r := NewRegistry(
		[]domain.AreaPOI{{AreaName: "Area1"}},
		[]domain.StickerPOI{{AreaName: "Area1", StickerIndex: 3}, {AreaName: "Ghost", StickerIndex: 4}},
	)

	errs := r.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(errs))
	}
	if !errors.Is(errs[0], domain.ErrConfigurationGap) {
		t.Errorf("expected ErrConfigurationGap, got %v", errs[0])
	}
}
