package main

import (
	"fmt"
	"io"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/nandanugg/stickerwalk/config"
	"github.com/nandanugg/stickerwalk/module/core/domain"
)

func areaPlacemarks(pois *config.POIFile) []kml.Element {
	out := []kml.Element{kml.Name("Areas")}
	for _, a := range pois.Areas {
		out = append(out, kml.Placemark(
			kml.Name(a.AreaName),
			kml.Description(a.Message),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: a.Lon, Lat: a.Lat})),
		))
	}
	return out
}

func stickerPlacemarks(pois *config.POIFile) []kml.Element {
	sprites := pois.SpriteMap()
	out := []kml.Element{kml.Name("Stickers")}
	for _, s := range pois.Stickers {
		desc := s.Message
		if image, ok := sprites[domain.SpriteKey{AreaName: s.AreaName, StickerIndex: s.StickerIndex}]; ok {
			desc = fmt.Sprintf("%s (%s)", s.Message, image)
		}
		out = append(out, kml.Placemark(
			kml.Name(fmt.Sprintf("%s sticker %d", s.AreaName, s.StickerIndex)),
			kml.Description(desc),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: s.Lon, Lat: s.Lat})),
		))
	}
	return out
}

// writeKML renders areas and stickers as two folders of placemarks.
func writeKML(w io.Writer, name string, pois *config.POIFile) error {
	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Folder(areaPlacemarks(pois)...),
			kml.Folder(stickerPlacemarks(pois)...),
		),
	)
	return doc.WriteIndent(w, "", "  ")
}
