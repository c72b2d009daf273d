package morse

import (
	"encoding/hex"
	"time"
)

// CommandRecord is one entry of a Robot's command history, kept around
// for the front-end and for session logs.
type CommandRecord struct {
	Time  time.Time
	Name  string
	Frame string // hex encoded
	Error string
}

func commandSent(name string, frame []byte) CommandRecord {
	return CommandRecord{
		Time:  time.Now(),
		Name:  name,
		Frame: hex.EncodeToString(frame),
	}
}

func commandFailed(name string, frame []byte, err error) CommandRecord {
	rec := commandSent(name, frame)
	rec.Error = err.Error()
	return rec
}

func (cr CommandRecord) Ok() bool {
	return cr.Error == ""
}
