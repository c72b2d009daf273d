package morse

import (
	"bytes"
	"testing"
)

func TestFrame(t *testing.T) {
	frame, err := Frame("eye", []byte{0x1f, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{Commands["eye"], 0x1f, 0xff}
	if !bytes.Equal(frame, expected) {
		t.Errorf("Frame(eye) = % x, expected % x", frame, expected)
	}

	if _, err = Frame("frobnicate", nil); err != ErrUnknownCommand {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestStopFrame(t *testing.T) {
	frame, err := StopFrame()
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{Commands["drive"], 0, 0, 0}
	if !bytes.Equal(frame, expected) {
		t.Errorf("StopFrame() = % x, expected % x", frame, expected)
	}
}

func TestSpinSharesDriveOpcode(t *testing.T) {
	frame, err := SpinFrame(200)
	if err != nil {
		t.Fatal(err)
	}
	if frame[0] != Commands["drive"] {
		t.Errorf("SpinFrame opcode = %#02x, expected drive's %#02x", frame[0], Commands["drive"])
	}
}

func TestHeadYawFrameClamps(t *testing.T) {
	frame, err := HeadYawFrame(90)
	if err != nil {
		t.Fatal(err)
	}
	if frame[1] != 0x35 { // clamped to 53
		t.Errorf("HeadYawFrame(90) angle byte = %#02x, expected 0x35", frame[1])
	}
	frame, err = HeadYawFrame(-90)
	if err != nil {
		t.Fatal(err)
	}
	if frame[1] != 0xcb { // clamped to -53
		t.Errorf("HeadYawFrame(-90) angle byte = %#02x, expected 0xcb", frame[1])
	}
}

func TestHeadPitchFrameClamps(t *testing.T) {
	frame, err := HeadPitchFrame(20)
	if err != nil {
		t.Fatal(err)
	}
	if frame[1] != 0x0a { // clamped to 10
		t.Errorf("HeadPitchFrame(20) angle byte = %#02x, expected 0x0a", frame[1])
	}
	frame, err = HeadPitchFrame(-20)
	if err != nil {
		t.Fatal(err)
	}
	if frame[1] != 0xfb { // clamped to -5
		t.Errorf("HeadPitchFrame(-20) angle byte = %#02x, expected 0xfb", frame[1])
	}
}

func TestBrightnessFramesAreStrict(t *testing.T) {
	if _, err := EyeBrightnessFrame(256); err != ErrValueOutOfRange {
		t.Errorf("EyeBrightnessFrame(256): expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := TailBrightnessFrame(-1); err != ErrValueOutOfRange {
		t.Errorf("TailBrightnessFrame(-1): expected ErrValueOutOfRange, got %v", err)
	}
	frame, err := TailBrightnessFrame(128)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{Commands["tail_brightness"], 128}
	if !bytes.Equal(frame, expected) {
		t.Errorf("TailBrightnessFrame(128) = % x, expected % x", frame, expected)
	}
}

func TestEyeFrame(t *testing.T) {
	frame, err := EyeFrame(8191)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{Commands["eye"], 0x1f, 0xff}
	if !bytes.Equal(frame, expected) {
		t.Errorf("EyeFrame(8191) = % x, expected % x", frame, expected)
	}
	if _, err = EyeFrame(70000); err != ErrValueOutOfRange {
		t.Errorf("EyeFrame(70000): expected ErrValueOutOfRange, got %v", err)
	}
}

func TestColorFrames(t *testing.T) {
	frame, err := NeckColorFrame("#fff")
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{Commands["neck_color"], 0xff, 0xff, 0xff}
	if !bytes.Equal(frame, expected) {
		t.Errorf("NeckColorFrame(#fff) = % x, expected % x", frame, expected)
	}

	if _, err = HeadColorFrame("notacolor"); err != ErrInvalidColor {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}

	left, _ := LeftEarColorFrame("red")
	right, _ := RightEarColorFrame("red")
	if left[0] == right[0] {
		t.Errorf("ear frames share opcode %#02x", left[0])
	}
	if !bytes.Equal(left[1:], right[1:]) {
		t.Errorf("ear frames disagree on color: % x vs % x", left[1:], right[1:])
	}
}

func TestSayFrame(t *testing.T) {
	frame, err := SayFrame("hi")
	if err != nil {
		t.Fatal(err)
	}
	if frame[0] != Commands["say"] {
		t.Errorf("SayFrame opcode = %#02x, expected %#02x", frame[0], Commands["say"])
	}
	if !bytes.Equal(frame[1:], Noises["hi"]) {
		t.Errorf("SayFrame params = % x, expected % x", frame[1:], Noises["hi"])
	}
	if len(frame) != 1+noiseRefLen {
		t.Errorf("SayFrame length = %d, expected %d", len(frame), 1+noiseRefLen)
	}

	if _, err = SayFrame("klaxon"); err != ErrUnknownSound {
		t.Errorf("expected ErrUnknownSound, got %v", err)
	}
}

func TestTurnFrameZeroIsNoop(t *testing.T) {
	frame, err := TurnFrame(0, DefaultTurnSpeedDPS)
	if err != nil || frame != nil {
		t.Errorf("TurnFrame(0) = % x, %v, expected nothing", frame, err)
	}
}

func TestMoveFrame(t *testing.T) {
	frame, err := MoveFrame(-50, 1000, true)
	if err != nil {
		t.Fatal(err)
	}
	if frame[0] != Commands["move"] {
		t.Errorf("MoveFrame opcode = %#02x, expected %#02x", frame[0], Commands["move"])
	}
	if len(frame) != 9 {
		t.Errorf("MoveFrame length = %d, expected 9", len(frame))
	}
	if frame[8] != 0x81 {
		t.Errorf("MoveFrame mode byte = %#02x, expected 0x81", frame[8])
	}
}
