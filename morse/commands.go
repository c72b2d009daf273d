package morse

import (
	"errors"
	"log"
)

var ErrUnknownCommand = errors.New("no such command")
var ErrUnknownSound = errors.New("no such sound in bank")

// Verbose enables hex dumps of outgoing frames.
var Verbose bool

// Commands maps command names to their opcode byte, as captured from the
// official app's Bluetooth traffic. The firmware identifies every frame by
// its first byte; parameter length is fixed per opcode.
var Commands = map[string]byte{
	"neck_color":      0x03,
	"tail_brightness": 0x04,
	"head_yaw":        0x06,
	"head_pitch":      0x07,
	"eye":             0x08,
	"eye_brightness":  0x09,
	"left_ear_color":  0x0b,
	"right_ear_color": 0x0c,
	"head_color":      0x0d,
	"say":             0x18,
	"move":            0x23,
	"drive":           0x78,
	"reset":           0xc8,
}

// Reset modes understood by the firmware.
const (
	ResetReflash byte = 1 // some kind of debug/reflash mode
	ResetReboot  byte = 3
	ResetClear   byte = 4 // zero out leds & head
)

const noiseRefLen = 10

// Noises maps friendly sound names to the fixed-width sound bank
// references the firmware expects as "say" parameters.
var Noises = map[string][]byte{}

var noiseBank = map[string]string{
	"hi":       "SYST_HI",
	"bye":      "SYST_BYE",
	"yawn":     "SYST_YAWN",
	"giggle":   "SYST_GIGL",
	"sneeze":   "SYST_SNZE",
	"uh_oh":    "SYST_UHOH",
	"wee":      "SYST_WEE",
	"siren":    "SYST_SIRN",
	"horse":    "SYST_HRSE",
	"elephant": "SYST_ELPH",
	"dino":     "SYST_DINO",
	"laser":    "SYST_LASR",
	"beep":     "SYST_BEEP",
	"gobble":   "SYST_GOBL",
	"growl":    "SYST_GRWL",
	"confused": "SYST_CNFD",
}

func init() {
	for name, ref := range noiseBank {
		b := make([]byte, noiseRefLen)
		copy(b, ref)
		Noises[name] = b
	}
}

// Frame prepends name's opcode to params, yielding a complete frame ready
// to be written verbatim to the link. Params length is each caller's
// responsibility, the protocol carries no length field nor checksum.
func Frame(name string, params []byte) ([]byte, error) {
	op, ok := Commands[name]
	if !ok {
		return nil, ErrUnknownCommand
	}
	frame := make([]byte, 0, 1+len(params))
	frame = append(frame, op)
	frame = append(frame, params...)
	if Verbose {
		log.Printf("%s: % x", name, frame)
	}
	return frame, nil
}
