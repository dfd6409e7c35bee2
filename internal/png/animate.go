package png

import (
	"bytes"
	"fmt"
	"math"

	"github.com/kettek/apng"
)

// MaxFrameDelay is the longest delay a frame control chunk can express
// with a denominator of 1000.
const MaxFrameDelay = float64(math.MaxUint16) / 1000

// Animate renders each image and joins them into an animated PNG, showing
// every frame for frameDelay seconds and looping forever.
func Animate(images []*Image, frameDelay float64) ([]byte, error) {
	if !(frameDelay >= 0 && frameDelay <= MaxFrameDelay) {
		return nil, fmt.Errorf("frame delay %gs outside [0, %g]: %w", frameDelay, MaxFrameDelay, ErrInvalidFrameDelay)
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(images)),
		LoopCount: 0,
	}

	for i, img := range images {
		r, err := img.Raster()
		if err != nil {
			return nil, fmt.Errorf("failed to render frame %d: %w", i, err)
		}

		a.Frames[i] = apng.Frame{
			Image:            r.Img,
			DelayNumerator:   uint16(math.Round(frameDelay * 1000)),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
