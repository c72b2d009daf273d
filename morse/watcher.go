package morse

import (
	"log"
	"sync"
	"time"

	"github.com/rkjdid/util"
)

// Watcher supervises the link to the robot: it polls the connection and
// reconnects through port discovery when the link drops.
type Watcher struct {
	bot    *Robot
	cfg    *WatcherConfig
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type WatcherConfig struct {
	ConnPollRate util.Duration
}

var DefaultWatcherConfig = WatcherConfig{
	ConnPollRate: util.Duration(time.Second),
}

func NewWatcher(bot *Robot, cfg *WatcherConfig) *Watcher {
	if cfg == nil {
		cfg = &DefaultWatcherConfig
	}
	return &Watcher{
		bot: bot,
		cfg: cfg,
	}
}

func (w *Watcher) Stop() {
	if w.stopCh == nil {
		return
	}
	log.Println("stopping conn watcher")
	close(w.stopCh)
	w.wg.Wait()
}

func (w *Watcher) WatchConn() {
	w.stopCh = make(chan struct{})
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		var (
			st  State = w.bot.State()
			err error
		)
		for {
			select {
			case <-time.After(time.Duration(w.cfg.ConnPollRate)):
			case <-w.stopCh:
				w.stopCh = nil
				return
			}

			err = w.bot.ping()
			if err != nil && st == Connected {
				log.Printf("closing serial connection to \"%s\": %s", w.bot.Conn.path, err)
				w.bot.Conn.Close()
				w.bot.Lock()
				w.bot.state = Disconnected
				w.bot.Unlock()
			}
			st = w.bot.State()

			switch st {
			case Connected:
			// pass
			default:
				conn, err := FindSerial(nil)
				if err != nil {
					// high-verbosity log
					break
				}
				w.bot.Lock()
				w.bot.Conn = conn
				w.bot.state = Connected
				neck := w.bot.neckColor
				w.bot.Unlock()
				st = Connected

				// The robot zeroes its lights on a power cycle,
				// make sure it's idle and restore the neck color.
				if err = w.bot.Stop(); err != nil {
					break
				}
				if neck != "" {
					_ = w.bot.NeckColor(neck)
				}
			}
		}
	}()
}
