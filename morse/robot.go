package morse

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/rkjdid/util"
)

var ErrNotConnected = errors.New("not connected to robot")

//go:generate stringer -type=State
type State int

const (
	Disconnected State = State(iota)
	Connected    State = State(iota)
	WriteError   State = State(iota)
	NilBot       State = State(iota)
)

// Snapshot is the state of a Robot at a given time.
type Snapshot struct {
	Time  time.Time
	State State
	Sent  int
	Last  CommandRecord
}

type Config struct {
	DriveSpeed    int        // default drive/spin speed for the panel
	MoveSpeedMMPS int        // default straight-move speed in mm/s
	TurnSpeedDPS  util.Float // rotation speed used to time turn commands, deg/s
	HistorySize   int        // bounded command history kept for the panel
}

var DefaultConfig = Config{
	DriveSpeed:    200,
	MoveSpeedMMPS: 1000,
	TurnSpeedDPS:  util.Float(DefaultTurnSpeedDPS),
	HistorySize:   64,
}

// Robot drives a Dash/Dot robot over a serial link. Frame construction
// itself is pure (see frames.go); Robot adds the link, connection state
// and a bounded command history on top.
type Robot struct {
	sync.Mutex
	Conn   *SerialConnection
	config *Config

	state     State
	neckColor string // restored by the watcher after a reconnect
	sent      int
	history   []CommandRecord
}

// NewRobot wraps conn, searching available ports when conn is nil.
// On failure the returned Robot is still usable (Disconnected), a
// Watcher may bring the link up later.
func NewRobot(conn *SerialConnection, cfg *Config) (*Robot, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	bot := &Robot{
		config: cfg,
		state:  Disconnected,
	}

	var err error
	if conn == nil {
		conn, err = FindSerial(nil)
		if err != nil {
			return bot, err
		}
	}
	bot.Conn = conn
	bot.state = Connected

	_, err = bot.TestConnection()
	return bot, err
}

const (
	pingRetries  = 8
	testConnPoll = time.Millisecond * 250
)

// TestConnection writes a stop frame every testConnPoll until one gets
// through, giving up after pingRetries tries.
func (bot *Robot) TestConnection() (_ time.Duration, err error) {
	t0 := time.Now()
	for i := 0; i < pingRetries; i++ {
		err = bot.ping()
		if err == nil {
			break
		}
		time.Sleep(testConnPoll)
	}
	return time.Since(t0), err
}

// Snapshot retrieves the state of bot at a given time.
func (bot *Robot) Snapshot() Snapshot {
	s := Snapshot{
		Time:  time.Now(),
		State: bot.State(),
	}
	if s.State == NilBot {
		return s
	}
	bot.Lock()
	s.Sent = bot.sent
	if len(bot.history) > 0 {
		s.Last = bot.history[len(bot.history)-1]
	}
	bot.Unlock()
	return s
}

// History returns a copy of the command history, oldest first.
func (bot *Robot) History() []CommandRecord {
	bot.Lock()
	defer bot.Unlock()
	out := make([]CommandRecord, len(bot.history))
	copy(out, bot.history)
	return out
}

// Sent returns the number of frames successfully handed to the link.
func (bot *Robot) Sent() int {
	bot.Lock()
	defer bot.Unlock()
	return bot.sent
}

func (bot *Robot) Config() Config {
	return *bot.config
}

func (bot *Robot) SetConfig(cfg *Config) error {
	bot.config = cfg
	return nil
}

func (bot *Robot) State() State {
	if bot == nil {
		return NilBot
	}
	return bot.state
}

// Reset resets the robot, see the Reset* mode constants.
func (bot *Robot) Reset(mode byte) error {
	frame, err := ResetFrame(mode)
	return bot.send("reset", frame, err)
}

// Eye lights the iris LEDs from a bitmask, full iris is 8191.
func (bot *Robot) Eye(value int) error {
	frame, err := EyeFrame(value)
	return bot.send("eye", frame, err)
}

// EyeBrightness sets the eye backlight, 0-255.
func (bot *Robot) EyeBrightness(value int) error {
	frame, err := EyeBrightnessFrame(value)
	return bot.send("eye_brightness", frame, err)
}

// TailBrightness sets the tail backlight, 0-255.
func (bot *Robot) TailBrightness(value int) error {
	frame, err := TailBrightnessFrame(value)
	return bot.send("tail_brightness", frame, err)
}

// NeckColor sets the neck light on Dash, eye backlight on Dot.
func (bot *Robot) NeckColor(spec string) error {
	frame, err := NeckColorFrame(spec)
	err = bot.send("neck_color", frame, err)
	if err == nil {
		bot.Lock()
		bot.neckColor = spec
		bot.Unlock()
	}
	return err
}

// LeftEarColor sets the left ear light.
func (bot *Robot) LeftEarColor(spec string) error {
	frame, err := LeftEarColorFrame(spec)
	return bot.send("left_ear_color", frame, err)
}

// RightEarColor sets the right ear light.
func (bot *Robot) RightEarColor(spec string) error {
	frame, err := RightEarColorFrame(spec)
	return bot.send("right_ear_color", frame, err)
}

// EarColor sets both ear lights, two frames on the wire.
func (bot *Robot) EarColor(spec string) error {
	if err := bot.LeftEarColor(spec); err != nil {
		return err
	}
	return bot.RightEarColor(spec)
}

// HeadColor sets the top LED.
func (bot *Robot) HeadColor(spec string) error {
	frame, err := HeadColorFrame(spec)
	return bot.send("head_color", frame, err)
}

// HeadYaw turns the head left or right, clamped to ±53 degrees.
func (bot *Robot) HeadYaw(angle int) error {
	frame, err := HeadYawFrame(angle)
	return bot.send("head_yaw", frame, err)
}

// HeadPitch tilts the head up or down, clamped to -5..10 degrees.
func (bot *Robot) HeadPitch(angle int) error {
	frame, err := HeadPitchFrame(angle)
	return bot.send("head_pitch", frame, err)
}

// Say plays a sound from the robot's bank, see Noises.
func (bot *Robot) Say(name string) error {
	frame, err := SayFrame(name)
	return bot.send("say", frame, err)
}

// Drive starts moving forward or backward at speed, until the next
// drive, spin or stop command.
func (bot *Robot) Drive(speed int) error {
	frame, err := DriveFrame(speed)
	return bot.send("drive", frame, err)
}

// Spin starts spinning in place, positive clockwise.
func (bot *Robot) Spin(speed int) error {
	frame, err := SpinFrame(speed)
	return bot.send("spin", frame, err)
}

// Stop halts both wheels.
func (bot *Robot) Stop() error {
	frame, err := StopFrame()
	return bot.send("stop", frame, err)
}

// Turn rotates degrees in place, timed with the configured turn speed.
func (bot *Robot) Turn(degrees int) error {
	frame, err := TurnFrame(degrees, float64(bot.config.TurnSpeedDPS))
	return bot.send("turn", frame, err)
}

// Move drives distanceMM in a straight line at the configured move
// speed, backing up without turning around on negative distances.
func (bot *Robot) Move(distanceMM int) error {
	return bot.MoveAt(distanceMM, bot.config.MoveSpeedMMPS, true)
}

// MoveAt drives distanceMM at speedMMPS mm/s.
func (bot *Robot) MoveAt(distanceMM, speedMMPS int, noTurn bool) error {
	frame, err := MoveFrame(distanceMM, speedMMPS, noTurn)
	return bot.send("move", frame, err)
}

// Blink pulses the full iris, handy to identify which robot we're
// talking to after connecting.
func (bot *Robot) Blink() error {
	if err := bot.Eye(8191); err != nil {
		return err
	}
	time.Sleep(time.Millisecond * 300)
	return bot.Eye(0)
}

// ping writes a stop frame, the most benign command the firmware
// accepts, to check the link is alive.
func (bot *Robot) ping() error {
	frame, err := StopFrame()
	if err != nil {
		return err
	}
	bot.Lock()
	defer bot.Unlock()
	return bot.write(frame)
}

// send hands a built frame to the link and records the outcome.
// A nil frame with a nil error is a no-op command (e.g. a zero turn).
func (bot *Robot) send(name string, frame []byte, err error) error {
	if err == nil && frame == nil {
		return nil
	}
	bot.Lock()
	defer bot.Unlock()
	if err == nil {
		err = bot.write(frame)
	}
	if err != nil {
		bot.record(commandFailed(name, frame, err))
		return err
	}
	bot.sent++
	bot.record(commandSent(name, frame))
	return nil
}

// write pushes frame to the link, caller holds the lock.
func (bot *Robot) write(frame []byte) error {
	if bot.Conn == nil {
		bot.state = Disconnected
		return ErrNotConnected
	}
	err := bot.Conn.Write(frame)
	if err != nil {
		bot.state = WriteError
		log.Printf("in bot.write: %s", err)
		return err
	}
	bot.state = Connected
	return nil
}

func (bot *Robot) record(rec CommandRecord) {
	max := bot.config.HistorySize
	if max <= 0 {
		return
	}
	bot.history = append(bot.history, rec)
	if len(bot.history) > max {
		bot.history = bot.history[len(bot.history)-max:]
	}
}
