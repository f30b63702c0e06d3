package service

import "github.com/nandanugg/stickerwalk/module/core/domain"

// SpriteCatalog maps stickers to the artwork reference shown in notifications.
type SpriteCatalog map[domain.SpriteKey]string

func (c SpriteCatalog) Sprite(area string, index int) (string, bool) {
	s, ok := c[domain.SpriteKey{AreaName: area, StickerIndex: index}]
	return s, ok
}
