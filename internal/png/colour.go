package png

import (
	"fmt"
	"slices"
)

type ColourType uint8

const (
	Grayscale      ColourType = 0
	RGB            ColourType = 2
	Palette        ColourType = 3
	GrayscaleAlpha ColourType = 4
	RGBAlpha       ColourType = 6
)

var legalBitDepths = map[ColourType][]uint8{
	Grayscale:      {1, 2, 4, 8, 16},
	RGB:            {8, 16},
	Palette:        {1, 2, 4, 8},
	GrayscaleAlpha: {8, 16},
	RGBAlpha:       {8, 16},
}

// LegalBitDepths returns the bit depths allowed for the colour type, or nil
// for an unknown code.
func (c ColourType) LegalBitDepths() []uint8 {
	return slices.Clone(legalBitDepths[c])
}

// Code is the colour type byte written into IHDR.
func (c ColourType) Code() uint8 {
	return uint8(c)
}

func (c ColourType) IsValid(depth uint8) bool {
	return slices.Contains(legalBitDepths[c], depth)
}

func (c ColourType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Palette:
		return "palette"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case RGBAlpha:
		return "rgb+alpha"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseColourType maps a name as printed by String back to its colour type.
func ParseColourType(name string) (ColourType, error) {
	for c := range legalBitDepths {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown colour type %q", name)
}
