package web

import (
	"github.com/solderbyte/morse/morse"
	"go.bug.st/serial.v1"
)

var DefaultConfig = Config{
	Web:     DefaultServerConfig,
	Robot:   morse.DefaultConfig,
	Watcher: morse.DefaultWatcherConfig,
	Serial:  *morse.DefaultSerialConfig,
}

type Config struct {
	Robot   morse.Config
	Web     ServerConfig
	Watcher morse.WatcherConfig
	Device  string
	Serial  serial.Mode
}
