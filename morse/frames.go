package morse

// Pure frame builders: each returns the complete opcode+parameters byte
// sequence for one robot operation, performing the validation or
// clamping documented for that operation and nothing else. No I/O.

// ResetFrame builds a reset frame. mode is passed to the firmware
// untouched, see the Reset* constants.
func ResetFrame(mode byte) ([]byte, error) {
	return Frame("reset", []byte{mode})
}

// EyeFrame builds a frame lighting the 13 iris LEDs from a bitmask,
// bottom LED first, incrementing clockwise. Full iris is 8191.
func EyeFrame(value int) ([]byte, error) {
	params, err := TwoByte(value)
	if err != nil {
		return nil, err
	}
	return Frame("eye", params)
}

// EyeBrightnessFrame builds a frame setting the eye backlight, 0-255.
func EyeBrightnessFrame(value int) ([]byte, error) {
	params, err := OneByte(value)
	if err != nil {
		return nil, err
	}
	return Frame("eye_brightness", params)
}

// TailBrightnessFrame builds a frame setting the tail backlight, 0-255.
func TailBrightnessFrame(value int) ([]byte, error) {
	params, err := OneByte(value)
	if err != nil {
		return nil, err
	}
	return Frame("tail_brightness", params)
}

func colorFrame(name, spec string) ([]byte, error) {
	params, err := ColorBytes(spec)
	if err != nil {
		return nil, err
	}
	return Frame(name, params)
}

// NeckColorFrame builds a frame setting the neck light on Dash,
// eye backlight on Dot.
func NeckColorFrame(spec string) ([]byte, error) {
	return colorFrame("neck_color", spec)
}

// LeftEarColorFrame builds a frame setting the left ear light.
func LeftEarColorFrame(spec string) ([]byte, error) {
	return colorFrame("left_ear_color", spec)
}

// RightEarColorFrame builds a frame setting the right ear light.
func RightEarColorFrame(spec string) ([]byte, error) {
	return colorFrame("right_ear_color", spec)
}

// HeadColorFrame builds a frame setting the top LED.
func HeadColorFrame(spec string) ([]byte, error) {
	return colorFrame("head_color", spec)
}

// HeadYawFrame builds a frame turning the head left or right,
// clamped to ±53 degrees.
func HeadYawFrame(angle int) ([]byte, error) {
	angle = clamp(angle, -53, 53)
	return Frame("head_yaw", []byte{AngleByte(angle)})
}

// HeadPitchFrame builds a frame tilting the head up or down,
// clamped to -5..10 degrees.
func HeadPitchFrame(angle int) ([]byte, error) {
	angle = clamp(angle, -5, 10)
	return Frame("head_pitch", []byte{AngleByte(angle)})
}

// SayFrame builds a frame playing a sound from the robot's bank.
func SayFrame(name string) ([]byte, error) {
	ref, ok := Noises[name]
	if !ok {
		return nil, ErrUnknownSound
	}
	return Frame("say", ref)
}

// DriveFrame builds a frame starting a continuous straight drive.
func DriveFrame(speed int) ([]byte, error) {
	return Frame("drive", Drive(speed))
}

// SpinFrame builds a frame starting a continuous spin in place.
func SpinFrame(speed int) ([]byte, error) {
	return Frame("drive", Spin(speed))
}

// StopFrame builds a frame halting both wheels.
func StopFrame() ([]byte, error) {
	return Frame("drive", Stop())
}

// TurnFrame builds a frame rotating degrees in place. A zero turn
// yields a nil frame, there is nothing to send.
func TurnFrame(degrees int, speedDPS float64) ([]byte, error) {
	params, err := Turn(degrees, speedDPS)
	if err != nil || params == nil {
		return nil, err
	}
	return Frame("move", params)
}

// MoveFrame builds a frame driving distanceMM in a straight line.
func MoveFrame(distanceMM, speedMMPS int, noTurn bool) ([]byte, error) {
	params, err := Move(distanceMM, speedMMPS, noTurn)
	if err != nil {
		return nil, err
	}
	return Frame("move", params)
}
