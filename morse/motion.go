package morse

import (
	"errors"
	"math"
)

const (
	// MaxSpeed bounds drive & spin speeds, both directions.
	MaxSpeed = 2048
	// MaxRotation is the largest turn a single move command can express.
	MaxRotation = 360

	// DefaultTurnSpeedDPS is the rotation speed the stock app times
	// its turn commands with, in degrees per second.
	DefaultTurnSpeedDPS = 360 / 2.094

	modeDefault       byte = 0x80
	modeReverseNoTurn byte = 0x81
)

var ErrConflictingMove = errors.New("cannot turn and move in a single command")
var ErrRotationLimit = errors.New("cannot turn more than one rotation per command")

// Stop yields drive parameters that halt both wheels.
func Stop() []byte {
	return []byte{0, 0, 0}
}

// Drive yields drive parameters moving the robot forward or backward at
// speed, clamped to ±MaxSpeed. The robot keeps going until another
// drive frame arrives. Negative speeds are folded into the firmware's
// 12-bit unsigned speed space.
func Drive(speed int) []byte {
	speed = clamp(speed, -MaxSpeed, MaxSpeed)
	if speed < 0 {
		speed = 0x800 + speed
	}
	return []byte{
		byte(speed & 0xff),
		0x00,
		byte((speed & 0x0f00) >> 8),
	}
}

// Spin yields drive parameters spinning the robot in place, positive
// clockwise, clamped to ±MaxSpeed.
// The high-byte field differs from Drive's (shift 5 against a wider
// mask); the stock firmware expects exactly this for rotation speed.
func Spin(speed int) []byte {
	speed = clamp(speed, -MaxSpeed, MaxSpeed)
	if speed < 0 {
		speed = 0x800 + speed
	}
	return []byte{
		0x00,
		byte(speed & 0xff),
		byte((speed & 0xff00) >> 5),
	}
}

// Turn yields move parameters rotating the robot degrees in place,
// positive clockwise, timed at speedDPS degrees per second. At most one
// rotation per command. A zero turn yields no parameters at all.
func Turn(degrees int, speedDPS float64) ([]byte, error) {
	if degrees > MaxRotation || degrees < -MaxRotation {
		return nil, ErrRotationLimit
	}
	if degrees == 0 {
		return nil, nil
	}
	seconds := math.Abs(float64(degrees) / speedDPS)
	return packMove(0, degrees, seconds, modeDefault)
}

// Move yields move parameters driving distanceMM in a straight line at
// speedMMPS mm/s, negative distances backwards. With noTurn set the
// robot backs up without turning around first.
func Move(distanceMM, speedMMPS int, noTurn bool) ([]byte, error) {
	if speedMMPS < 0 {
		speedMMPS = -speedMMPS
	}
	if speedMMPS == 0 {
		return nil, ErrValueOutOfRange
	}
	seconds := math.Abs(float64(distanceMM) / float64(speedMMPS))
	mode := modeDefault
	if noTurn && distanceMM < 0 {
		mode = modeReverseNoTurn
	}
	return packMove(distanceMM, 0, seconds, mode)
}

// packMove packs a move command's 8 parameter bytes.
//
// The sixth byte is shared: driving straight it holds the 6 high bits of
// the distance, turning it holds the 2 high bits of the angle shifted
// into the high nibble. The protocol cannot express both at once, which
// is enforced up front rather than left to the bit arithmetic.
//
// The eighth byte is the mode byte: 0x80 on a first move, 0x81 when
// backing up without turning around. Firmware semantics are not fully
// documented.
func packMove(distanceMM, degrees int, seconds float64, mode byte) ([]byte, error) {
	if distanceMM != 0 && degrees != 0 {
		return nil, ErrConflictingMove
	}

	distanceLow := byte(distanceMM & 0x00ff)
	distanceHigh := byte((distanceMM & 0x3f00) >> 8)

	// turn angle travels as centiradians
	centiradians := int(math.Round(float64(degrees) * math.Pi / 180 * 100))
	turnLow := byte(centiradians & 0x00ff)
	turnHigh := byte((centiradians & 0x0300) >> 2)

	var seventh byte
	if centiradians < 0 {
		seventh = 0xc0
	}

	ms := int(math.Round(seconds * 1000))
	return []byte{
		distanceLow,
		0x00, // unknown, always zero in captures
		turnLow,
		byte((ms & 0xff00) >> 8),
		byte(ms & 0x00ff),
		distanceHigh | turnHigh,
		seventh,
		mode,
	}, nil
}
