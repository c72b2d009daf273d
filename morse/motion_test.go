package morse

import (
	"bytes"
	"testing"
)

func TestStopIsZeroDrive(t *testing.T) {
	if !bytes.Equal(Stop(), []byte{0, 0, 0}) {
		t.Errorf("Stop() = % x", Stop())
	}
	if !bytes.Equal(Drive(0), Stop()) {
		t.Errorf("Drive(0) = % x, expected Stop()", Drive(0))
	}
}

func TestDrive(t *testing.T) {
	cases := []struct {
		speed  int
		params []byte
	}{
		{200, []byte{200, 0x00, 0x00}},
		{-200, []byte{0x38, 0x00, 0x07}}, // 0x800-200 = 0x738
		{2048, []byte{0x00, 0x00, 0x08}},
		{5000, []byte{0x00, 0x00, 0x08}},  // clamped to 2048
		{-5000, []byte{0x00, 0x00, 0x00}}, // clamped to -2048, folds to 0
		{1000, []byte{0xe8, 0x00, 0x03}},
	}
	for _, c := range cases {
		if got := Drive(c.speed); !bytes.Equal(got, c.params) {
			t.Errorf("Drive(%d) = % x, expected % x", c.speed, got, c.params)
		}
	}
}

func TestSpin(t *testing.T) {
	cases := []struct {
		speed  int
		params []byte
	}{
		{200, []byte{0x00, 0xc8, 0x00}},
		{-200, []byte{0x00, 0x38, 0x38}}, // 0x738's high byte shifted by 5
		{2048, []byte{0x00, 0x00, 0x40}},
		{-5000, []byte{0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		if got := Spin(c.speed); !bytes.Equal(got, c.params) {
			t.Errorf("Spin(%d) = % x, expected % x", c.speed, got, c.params)
		}
	}
}

func TestPackMoveTurn(t *testing.T) {
	// 90 degrees is 157 centiradians, one second is 1000ms
	params, err := packMove(0, 90, 1.0, 0x80)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x00, 0x00, 0x9d, 0x03, 0xe8, 0x00, 0x00, 0x80}
	if !bytes.Equal(params, expected) {
		t.Errorf("packMove(0, 90, 1.0, 0x80) = % x, expected % x", params, expected)
	}
}

func TestPackMoveTurnNegative(t *testing.T) {
	params, err := packMove(0, -90, 1.0, 0x80)
	if err != nil {
		t.Fatal(err)
	}
	// -157 centiradians: low byte 0x63, high bits land in the shared
	// sixth byte, sign flag set
	expected := []byte{0x00, 0x00, 0x63, 0x03, 0xe8, 0xc0, 0xc0, 0x80}
	if !bytes.Equal(params, expected) {
		t.Errorf("packMove(0, -90, 1.0, 0x80) = % x, expected % x", params, expected)
	}
	if params[6] != 0xc0 {
		t.Errorf("negative turn: seventh byte = %#02x, expected 0xc0", params[6])
	}
}

func TestPackMoveConflict(t *testing.T) {
	if _, err := packMove(100, 45, 1.0, 0x80); err != ErrConflictingMove {
		t.Errorf("expected ErrConflictingMove, got %v", err)
	}
}

func TestTurn(t *testing.T) {
	if _, err := Turn(400, 100); err != ErrRotationLimit {
		t.Errorf("Turn(400): expected ErrRotationLimit, got %v", err)
	}
	if _, err := Turn(-361, 100); err != ErrRotationLimit {
		t.Errorf("Turn(-361): expected ErrRotationLimit, got %v", err)
	}

	params, err := Turn(0, 100)
	if err != nil || params != nil {
		t.Errorf("Turn(0) = % x, %v, expected no params", params, err)
	}

	// 90 degrees at 90 deg/s is a one second turn
	params, err = Turn(90, 90)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x00, 0x00, 0x9d, 0x03, 0xe8, 0x00, 0x00, 0x80}
	if !bytes.Equal(params, expected) {
		t.Errorf("Turn(90, 90) = % x, expected % x", params, expected)
	}
}

func TestMove(t *testing.T) {
	// backing up 50mm at 1m/s without turning around
	params, err := Move(-50, 1000, true)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0xce, 0x00, 0x00, 0x00, 0x32, 0x3f, 0x00, 0x81}
	if !bytes.Equal(params, expected) {
		t.Errorf("Move(-50, 1000, true) = % x, expected % x", params, expected)
	}

	// same but allowed to turn around: default mode byte
	params, err = Move(-50, 1000, false)
	if err != nil {
		t.Fatal(err)
	}
	if params[7] != 0x80 {
		t.Errorf("Move(-50, 1000, false): mode byte = %#02x, expected 0x80", params[7])
	}

	// forward moves never get the reverse flag
	params, err = Move(50, 1000, true)
	if err != nil {
		t.Fatal(err)
	}
	if params[7] != 0x80 {
		t.Errorf("Move(50, 1000, true): mode byte = %#02x, expected 0x80", params[7])
	}

	// 1m at 0.5m/s: 2000ms, distance high bits in the sixth byte
	params, err = Move(1000, 500, false)
	if err != nil {
		t.Fatal(err)
	}
	expected = []byte{0xe8, 0x00, 0x00, 0x07, 0xd0, 0x03, 0x00, 0x80}
	if !bytes.Equal(params, expected) {
		t.Errorf("Move(1000, 500, false) = % x, expected % x", params, expected)
	}

	// negative speeds drive the timing just like positive ones
	params, err = Move(1000, -500, false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(params, expected) {
		t.Errorf("Move(1000, -500, false) = % x, expected % x", params, expected)
	}

	if _, err = Move(100, 0, false); err != ErrValueOutOfRange {
		t.Errorf("Move with zero speed: expected ErrValueOutOfRange, got %v", err)
	}
}
