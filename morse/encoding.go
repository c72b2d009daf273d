package morse

import (
	"errors"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var ErrValueOutOfRange = errors.New("value out of range")
var ErrInvalidColor = errors.New("unresolvable color")

// OneByte encodes v on a single byte. v must be in [0,255],
// out of range values are an error, not clamped.
func OneByte(v int) ([]byte, error) {
	if v < 0 || v > 0xff {
		return nil, ErrValueOutOfRange
	}
	return []byte{byte(v)}, nil
}

// TwoByte encodes v big-endian on two bytes. v must be in [0,65535].
func TwoByte(v int) ([]byte, error) {
	if v < 0 || v > 0xffff {
		return nil, ErrValueOutOfRange
	}
	return []byte{byte(v >> 8), byte(v)}, nil
}

// AngleByte encodes angle as an 8-bit two's complement byte.
// Valid input is [-127,127]; callers clamp to their own documented
// range first (head yaw ±53, head pitch -5..10).
func AngleByte(angle int) byte {
	if angle < 0 {
		return byte((-angle ^ 0xff) + 1)
	}
	return byte(angle & 0xff)
}

// ColorBytes resolves a color specification to three RGB bytes.
// Accepted forms: 3-digit hex ("#fbb"), 6-digit hex ("#fa3b2c"),
// or an SVG 1.1 color name ("white").
func ColorBytes(spec string) ([]byte, error) {
	var r, g, b float64
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(strings.ToLower(spec))
		if err != nil {
			return nil, ErrInvalidColor
		}
		r, g, b = c.R, c.G, c.B
	} else {
		c, ok := colornames.Map[strings.ToLower(spec)]
		if !ok {
			return nil, ErrInvalidColor
		}
		r, g, b = float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	}
	return []byte{channelByte(r), channelByte(g), channelByte(b)}, nil
}

func channelByte(v float64) byte {
	n := int(math.Round(v * 255))
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return byte(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
