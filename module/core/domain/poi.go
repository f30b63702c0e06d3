package domain

type AreaPOI struct {
	Lat      float64 `json:"latitude"`
	Lon      float64 `json:"longitude"`
	Message  string  `json:"message"`
	AreaName string  `json:"areaName"`
}

type StickerPOI struct {
	Lat          float64 `json:"latitude"`
	Lon          float64 `json:"longitude"`
	Message      string  `json:"message"`
	AreaName     string  `json:"areaName"`
	StickerIndex int     `json:"stickerIndex"`
}

type POIKind string

const (
	KindArea    POIKind = "area"
	KindSticker POIKind = "sticker"
)

// POI is the runtime form of a configured area or sticker. Triggered is
// session-scoped and owned by the registry that created it.
type POI struct {
	Kind         POIKind
	Lat          float64
	Lon          float64
	Message      string
	AreaName     string
	StickerIndex int
	Triggered    bool
}

func (p *POI) IsSticker() bool {
	return p.Kind == KindSticker
}

// SpriteKey identifies the artwork shown with a sticker notification.
type SpriteKey struct {
	AreaName     string
	StickerIndex int
}
