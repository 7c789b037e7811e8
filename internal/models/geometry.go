package models

import (
	"encoding/binary"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// parsePoint turns a GeoJSON Point into little-endian WKB. An empty
// string clears the location.
func parsePoint(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, invalid("station", "location", "Location must be a GeoJSON Point: "+err.Error())
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, invalid("station", "location", "Location must be a GeoJSON Point.")
	}
	return wkb.Marshal(p, binary.LittleEndian)
}

// pointToGeoJSON converts stored WKB back into a GeoJSON string.
func pointToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
