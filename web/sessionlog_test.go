package web

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/solderbyte/morse/morse"
)

func TestSessionLogRoundtrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "morse-sessions-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	started := time.Date(2019, 4, 2, 15, 4, 5, 0, time.UTC)
	sl := SessionLog{
		Device:  "/dev/ttyUSB0",
		Version: "test",
		Started: started,
		Ended:   started.Add(time.Minute),
		Sent:    2,
		History: []morse.CommandRecord{
			{Time: started, Name: "stop", Frame: "78000000"},
			{Time: started, Name: "turn", Error: "rotation limited to 360 degrees"},
		},
	}
	if err = SaveSessionLog(dir, sl); err != nil {
		t.Fatal(err)
	}

	infos, err := ListSessionLogs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Fatalf("found %d session logs, expected 1", len(infos))
	}
	info := infos[0]
	if info.Device != sl.Device || info.Sent != sl.Sent {
		t.Errorf("info = %+v, expected device %s with %d sent", info, sl.Device, sl.Sent)
	}
	if info.Path() != "session_2019-04-02_15h04m05.log" {
		t.Errorf("path = %q", info.Path())
	}
}

func TestListSessionLogsEmptyDir(t *testing.T) {
	infos, err := ListSessionLogs("")
	if err != nil || infos != nil {
		t.Errorf("ListSessionLogs(\"\") = %v, %v", infos, err)
	}
}
