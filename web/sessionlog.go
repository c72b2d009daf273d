package web

import (
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"time"

	"github.com/rkjdid/util"
	"github.com/solderbyte/morse/morse"
)

// SessionLog is one control session's worth of commands, dumped as TOML
// when the program exits so a session can be replayed or inspected.
type SessionLog struct {
	Device  string
	Version string
	Started time.Time
	Ended   time.Time
	Sent    int
	History []morse.CommandRecord
}

func (sl SessionLog) Info() SessionLogInfo {
	return SessionLogInfo{
		Device:  sl.Device,
		Started: sl.Started,
		Ended:   sl.Ended,
		Sent:    sl.Sent,
	}
}

func (sl SessionLog) FileName() string {
	return sl.Info().FileName()
}

type SessionLogInfo struct {
	Device  string
	Started time.Time
	Ended   time.Time
	Sent    int
	relPath string
}

func (sli SessionLogInfo) Path() string {
	if len(sli.relPath) > 0 {
		return sli.relPath
	}
	return sli.FileName()
}

func (sli SessionLogInfo) FileName() string {
	return fmt.Sprintf("session_%s.log",
		sli.Started.Format("2006-01-02_15h04m05"))
}

// SaveSessionLog writes sl under dir, named after its start time.
func SaveSessionLog(dir string, sl SessionLog) error {
	return util.WriteTomlFile(sl, filepath.Join(dir, sl.FileName()))
}

// ListSessionLogs parses every session log found under dir.
func ListSessionLogs(dir string) ([]SessionLogInfo, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var infos []SessionLogInfo
	for _, fi := range files {
		var fpath = filepath.Join(dir, fi.Name())
		var sl SessionLog
		err = util.ReadTomlFile(&sl, fpath)
		if err != nil {
			log.Printf("error parsing session log: %s", err)
		} else {
			info := sl.Info()
			info.relPath = fi.Name()
			infos = append(infos, info)
		}
	}
	return infos, nil
}
