package morse

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.bug.st/serial.v1"
)

var ErrNoSerialPortFound = errors.New("didn't find any available serial port")
var ErrClosedPort = errors.New("serial port is closed")

// DefaultSerialConfig fits the common BLE-serial bridges the robots
// are reached through.
var DefaultSerialConfig = &serial.Mode{
	BaudRate: 115200,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

var DefaultTimeout = time.Second

// SerialConnection is the write-mostly link to the robot. Frames go out
// through a single write routine; a drain routine keeps reading so the
// robot's unsolicited telemetry can't fill OS buffers. Nothing in this
// package decodes that telemetry, it is counted and dropped.
type SerialConnection struct {
	WriteTimeout time.Duration

	serial.Port
	path   string
	config *serial.Mode

	wrChan    chan []byte
	closeChan chan struct{}
	wg        sync.WaitGroup

	drainMu sync.Mutex
	drained int
}

func NewSerial(port serial.Port, config *serial.Mode, name string) *SerialConnection {
	return &SerialConnection{
		Port:      port,
		path:      name,
		config:    config,
		wrChan:    make(chan []byte),
		closeChan: make(chan struct{}),

		WriteTimeout: DefaultTimeout,
	}
}

// Start begins the write and drain routines.
func (sc *SerialConnection) Start() {
	sc.wg.Add(2)
	go func() {
		sc.writeRoutine()
		sc.wg.Done()
	}()
	go func() {
		sc.drainRoutine()
		sc.wg.Done()
	}()
}

// Write pushes frame to the write routine, or returns an error after
// sc.WriteTimeout, or if connection is closed.
func (sc *SerialConnection) Write(frame []byte) (err error) {
	select {
	case sc.wrChan <- frame:
	case <-sc.closeChan:
		err = ErrClosedPort
	case <-time.After(sc.WriteTimeout):
		err = fmt.Errorf("write timeout (%s)", sc.WriteTimeout)
	}
	return err
}

// Close notifies the routines to stop, waits for them to return,
// then actually closes the serial port.
func (sc *SerialConnection) Close() error {
	close(sc.closeChan)
	sc.wg.Wait()
	return sc.Port.Close()
}

// Path returns device name / path of serial port.
func (sc *SerialConnection) Path() string {
	return sc.path
}

// Drained returns how many telemetry bytes were read and dropped.
func (sc *SerialConnection) Drained() int {
	sc.drainMu.Lock()
	defer sc.drainMu.Unlock()
	return sc.drained
}

func (sc *SerialConnection) writeRoutine() {
	var frame []byte
	for {
		select {
		case frame = <-sc.wrChan:
		case <-sc.closeChan:
			return
		}
		_, err := sc.Port.Write(frame)
		if err != nil {
			log.Println("in sc.writeRoutine:", err)
		}
	}
}

func (sc *SerialConnection) drainRoutine() {
	b := make([]byte, 64)
	for {
		select {
		case <-sc.closeChan:
			return
		default:
		}
		time.Sleep(time.Millisecond * 50)
		i, err := sc.Port.Read(b)
		if err != nil {
			select {
			case <-sc.closeChan:
			case <-time.After(time.Millisecond * 250):
			}
			continue
		}
		if i > 0 {
			sc.drainMu.Lock()
			sc.drained += i
			sc.drainMu.Unlock()
		}
	}
}

// FindSerial tries each available serial port until a stop frame gets
// through (platform independant hopefully). If config is nil,
// DefaultSerialConfig is used.
func FindSerial(config *serial.Mode) (*SerialConnection, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultSerialConfig
	}
	var port serial.Port
	for _, v := range ports {
		port, err = serial.Open(v, config)
		if err == nil {
			log.Printf("trying \"%s\"...", v)
			conn := NewSerial(port, config, v)
			conn.WriteTimeout = time.Millisecond * 250
			conn.Start()
			// probe with a temporary bot
			bot := &Robot{Conn: conn, config: &DefaultConfig, state: Connected}
			t, err := bot.TestConnection()
			if err == nil {
				log.Printf("connected to \"%s\" in %s", v, t)
				return conn, nil
			}
			conn.Close()
		}
	}
	if err == nil {
		return nil, ErrNoSerialPortFound
	}
	return nil, err
}

func OpenPortName(name string) (port serial.Port, config *serial.Mode, err error) {
	config = DefaultSerialConfig
	port, err = serial.Open(name, config)
	return port, config, err
}
