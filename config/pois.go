package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type SpriteEntry struct {
	AreaName     string `json:"areaName"`
	StickerIndex int    `json:"stickerIndex"`
	Image        string `json:"image"`
}

// POIFile is the on-disk layout of the walk: areas, stickers and the
// sprite shown for each sticker.
type POIFile struct {
	Areas    []domain.AreaPOI    `json:"areas"`
	Stickers []domain.StickerPOI `json:"stickers"`
	Sprites  []SpriteEntry       `json:"sprites"`
}

func LoadPOIs(path string) (*POIFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read poi file: %w", err)
	}
	return ParsePOIs(raw)
}

func ParsePOIs(raw []byte) (*POIFile, error) {
	var f POIFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode poi file: %w", err)
	}
	for i, a := range f.Areas {
		if err := validateCoordinate(a.Lat, a.Lon); err != nil {
			return nil, fmt.Errorf("areas[%d]: %w", i, err)
		}
		if a.AreaName == "" {
			return nil, fmt.Errorf("areas[%d]: areaName is required", i)
		}
	}
	for i, s := range f.Stickers {
		if err := validateCoordinate(s.Lat, s.Lon); err != nil {
			return nil, fmt.Errorf("stickers[%d]: %w", i, err)
		}
		if s.AreaName == "" {
			return nil, fmt.Errorf("stickers[%d]: areaName is required", i)
		}
	}
	return &f, nil
}

// SpriteMap indexes sprites by area and sticker index. Later entries win.
func (f *POIFile) SpriteMap() map[domain.SpriteKey]string {
	out := make(map[domain.SpriteKey]string, len(f.Sprites))
	for _, s := range f.Sprites {
		out[domain.SpriteKey{AreaName: s.AreaName, StickerIndex: s.StickerIndex}] = s.Image
	}
	return out
}

func validateCoordinate(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	return nil
}
