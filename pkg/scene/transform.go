package scene

import (
	"fmt"
	"reflect"

	"github.com/aretw0/immense/pkg/geom"
	"github.com/mitchellh/mapstructure"
)

type transformEntry struct {
	Translate []float32 `mapstructure:"translate"`
	X         *float32  `mapstructure:"x"`
	Y         *float32  `mapstructure:"y"`
	Z         *float32  `mapstructure:"z"`
	Scale     any       `mapstructure:"scale"`
}

// DecodeTransform converts one raw transform entry into a Transform.
func DecodeTransform(raw map[string]any) (geom.Transform, error) {
	if len(raw) != 1 {
		return geom.Transform{}, fmt.Errorf("transform entry must have exactly one key, got %d", len(raw))
	}

	var e transformEntry
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &e,
		ErrorUnused: true,
	})
	if err != nil {
		return geom.Transform{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return geom.Transform{}, fmt.Errorf("failed to decode transform: %w", err)
	}

	switch {
	case e.Translate != nil:
		if len(e.Translate) != 3 {
			return geom.Transform{}, fmt.Errorf("translate needs 3 components, got %d", len(e.Translate))
		}
		return geom.Translate(e.Translate[0], e.Translate[1], e.Translate[2]), nil
	case e.X != nil:
		return geom.TranslateX(*e.X), nil
	case e.Y != nil:
		return geom.TranslateY(*e.Y), nil
	case e.Z != nil:
		return geom.TranslateZ(*e.Z), nil
	case e.Scale != nil:
		return decodeScale(e.Scale)
	}
	return geom.Transform{}, fmt.Errorf("empty transform entry")
}

func decodeScale(v any) (geom.Transform, error) {
	if reflect.ValueOf(v).Kind() == reflect.Slice {
		var xyz []float32
		if err := mapstructure.Decode(v, &xyz); err != nil {
			return geom.Transform{}, fmt.Errorf("failed to decode scale: %w", err)
		}
		if len(xyz) != 3 {
			return geom.Transform{}, fmt.Errorf("scale needs 1 or 3 components, got %d", len(xyz))
		}
		return geom.ScaleXYZ(xyz[0], xyz[1], xyz[2]), nil
	}
	var s float32
	if err := mapstructure.Decode(v, &s); err != nil {
		return geom.Transform{}, fmt.Errorf("failed to decode scale: %w", err)
	}
	return geom.ScaleBy(s), nil
}

// DecodeTransforms decodes a list of entries and composes them, the first
// entry innermost. An empty list yields the identity.
func DecodeTransforms(raw []map[string]any) (geom.Transform, error) {
	t := geom.Identity()
	for i, entry := range raw {
		next, err := DecodeTransform(entry)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("[%d]: %w", i, err)
		}
		t = t.Then(next)
	}
	return t, nil
}
