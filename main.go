package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rkjdid/util"
	"github.com/solderbyte/morse/morse"
	"github.com/solderbyte/morse/web"
)

var (
	conn       *morse.SerialConnection
	rootConfig *web.Config
)

var (
	device   = flag.String("dev", "", "path to serial port, if empty it will be searched automatically")
	rootPath = flag.String("root", "", "path to morse's main directory (defaults to executable path)")
	cfgPath  = flag.String("config", "", "path to config (defaults to <root>/config.toml)")
	verbose  = flag.Bool("v", false, "higher verbosity")
	version  = flag.Bool("version", false, "print version & exit")
)

func init() {
	flag.Parse()

	// print version & exit
	if *version {
		fmt.Printf("morse %s\n", Version)
		os.Exit(0)
	}

	if *device != "" {
		port, config, err := morse.OpenPortName(*device)
		if err != nil {
			log.Fatal("error opening serial port: ", err)
		}
		conn = morse.NewSerial(port, config, *device)
		conn.Start()
	}

	if *rootPath == "" {
		exe, err := os.Executable()
		if err != nil {
			log.Fatalf("couldn't get path to executable: %s", err)
		}
		*rootPath = filepath.Dir(exe)
	}
	for _, v := range []string{*rootPath} {
		err := os.MkdirAll(v, 0755)
		if err != nil {
			log.Fatalf("couldn't mkdir \"%s\": %s", v, err)
		}
	}

	if *cfgPath == "" {
		*cfgPath = filepath.Join(*rootPath, "config.toml")
	}

	err := util.ReadTomlFile(&rootConfig, *cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("error reading config \"%s\": %s", *cfgPath, err)
		}
		rootConfig = &web.DefaultConfig
		err = util.WriteTomlFile(rootConfig, *cfgPath)
		if err != nil {
			log.Fatalf("error creating config \"%s\": %s", *cfgPath, err)
		}
		log.Printf("created new config file \"%s\"", *cfgPath)
	}

	if rootConfig.Web.SessionDir == "" {
		rootConfig.Web.SessionDir = filepath.Join(*rootPath, "sessions")
	}
	if err = os.MkdirAll(rootConfig.Web.SessionDir, 0755); err != nil {
		log.Fatalf("couldn't mkdir \"%s\": %s", rootConfig.Web.SessionDir, err)
	}

	if *verbose {
		rootConfig.Web.Verbose = true
		morse.Verbose = true
	}

	log.Printf("using config file: %s", *cfgPath)
}

func main() {
	started := time.Now()
	bot, err := morse.NewRobot(conn, &rootConfig.Robot)
	if err != nil {
		log.Println("error initializing robot connection:", err)
	}
	if conn != nil {
		_, err := bot.TestConnection()
		if err != nil {
			log.Printf("no response from robot on port \"%s\": %s", *device, err)
			os.Exit(1)
		}
		log.Printf("connected to \"%s\"", *device)
		if err = bot.Blink(); err != nil {
			log.Println("in bot.Blink:", err)
		}
	}

	log.Printf("starting conn watcher (poll rate: %s)", rootConfig.Watcher.ConnPollRate)
	watcher := morse.NewWatcher(bot, &rootConfig.Watcher)
	watcher.WatchConn()

	log.Printf("starting webserver on http://%s ...", rootConfig.Web.ListenAddr)
	go web.StartServer(Version, bot, rootConfig, *cfgPath)

	// small delay to allow for panic in StartServer
	<-time.After(time.Millisecond * 500)
	log.Println("Press <Ctrl-C> to quit")

	trap := make(chan os.Signal, 1)
	signal.Notify(trap, os.Kill, os.Interrupt)
	<-trap
	fmt.Println()
	log.Println("quit received...")

	cleanExit := make(chan struct{})
	go func() {
		watcher.Stop()
		if err := bot.Stop(); err != nil {
			log.Println("in bot.Stop:", err)
		}
		saveSession(bot, started)
		if bot.Conn != nil {
			bot.Conn.Close()
		}

		close(cleanExit)
	}()
	select {
	case <-time.After(time.Second * 10):
		log.Panicln("no clean exit after 10sec")
	case <-cleanExit:
	}
}

func saveSession(bot *morse.Robot, started time.Time) {
	history := bot.History()
	if len(history) == 0 {
		return
	}
	var device string
	if bot.Conn != nil {
		device = bot.Conn.Path()
	}
	sl := web.SessionLog{
		Device:  device,
		Version: Version,
		Started: started,
		Ended:   time.Now(),
		Sent:    bot.Sent(),
		History: history,
	}
	if err := web.SaveSessionLog(rootConfig.Web.SessionDir, sl); err != nil {
		log.Println("error saving session log:", err)
	}
}
