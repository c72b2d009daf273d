package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rkjdid/util"
	"github.com/solderbyte/morse/morse"

	_ "net/http/pprof"
)

type ServerConfig struct {
	ListenAddr        string
	Verbose           bool
	StaticDir         string
	SessionDir        string
	WebsocketInterval util.Duration

	version string
}

var DefaultServerConfig = ServerConfig{
	ListenAddr:        "localhost:3535",
	WebsocketInterval: util.Duration(time.Second),
}

type Server struct {
	Config *Config
	Robot  *morse.Robot

	cfgPath    string
	router     *mux.Router
	wsUpgrader *websocket.Upgrader
}

// CommandParams carries the arguments of a dispatched command; each
// command reads the fields it cares about.
type CommandParams struct {
	Value    int
	Mode     int
	Color    string
	Angle    int
	Speed    int
	Degrees  int
	Distance int
	Sound    string
	NoTurn   *bool
}

// NewServer builds a ready-to-serve Server with its routes registered.
func NewServer(version string, bot *morse.Robot, cfg *Config, cfgPath string) *Server {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	cfg.Web.version = version
	srv := &Server{
		Config:  cfg,
		Robot:   bot,
		cfgPath: cfgPath,
	}
	srv.wsUpgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	verbose := srv.Config.Web.Verbose
	srv.router = mux.NewRouter()

	// pprof handlers
	srv.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	// shh
	srv.router.Handle("/favicon.ico", http.HandlerFunc(NilHandler))

	// register endpoints
	if srv.Config.Web.StaticDir != "" {
		srv.router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", Logger(
				http.FileServer(http.Dir(srv.Config.Web.StaticDir)), "static", verbose))).
			Methods("GET", "HEAD")
	}
	srv.router.Handle("/websocket",
		Logger(http.HandlerFunc(srv.Websocket), "ws-snapshot", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/config",
		Logger(http.HandlerFunc(srv.RobotConfigHandler), "config", verbose)).
		Methods("GET", "POST", "HEAD")
	srv.router.Handle("/command/{name}",
		Logger(http.HandlerFunc(srv.Command), "command", verbose)).
		Methods("POST")
	srv.router.Handle("/frame/{name}",
		Logger(http.HandlerFunc(srv.DryFrame), "frame", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/snapshot",
		Logger(http.HandlerFunc(srv.Snapshot), "snapshot", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/history",
		Logger(http.HandlerFunc(srv.History), "history", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/sessions",
		Logger(http.HandlerFunc(srv.Sessions), "sessions", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/stop",
		Logger(http.HandlerFunc(srv.StopRobot), "stop", verbose)).
		Methods("POST", "HEAD")
	srv.router.Handle("/",
		Logger(http.HandlerFunc(srv.Home), "web", verbose)).
		Methods("GET", "HEAD")

	return srv
}

// StartServer starts a new http.Server using provided version, Robot & Config.
// It either doesn't return or log.Fatals (http.Listen)
func StartServer(version string, bot *morse.Robot, cfg *Config, cfgPath string) {
	srv := NewServer(version, bot, cfg, cfgPath)
	httpServer := &http.Server{
		Handler:      srv.router,
		Addr:         srv.Config.Web.ListenAddr,
		WriteTimeout: 4 * time.Second,
		ReadTimeout:  4 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal("http.ListenAndServe:", err)
	}
}

func httpStatus(err error) int {
	switch err {
	case nil:
		return http.StatusOK
	case morse.ErrUnknownCommand, morse.ErrUnknownSound:
		return http.StatusNotFound
	case morse.ErrNotConnected, morse.ErrClosedPort:
		return http.StatusBadGateway
	case morse.ErrValueOutOfRange, morse.ErrInvalidColor,
		morse.ErrRotationLimit, morse.ErrConflictingMove:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// dispatch routes a named operation to the connected facade.
func (s *Server) dispatch(name string, p CommandParams) error {
	bot := s.Robot
	switch name {
	case "reset":
		mode := byte(p.Mode)
		if p.Mode == 0 {
			mode = morse.ResetClear
		}
		return bot.Reset(mode)
	case "eye":
		return bot.Eye(p.Value)
	case "eye_brightness":
		return bot.EyeBrightness(p.Value)
	case "tail_brightness":
		return bot.TailBrightness(p.Value)
	case "neck_color":
		return bot.NeckColor(p.Color)
	case "left_ear_color":
		return bot.LeftEarColor(p.Color)
	case "right_ear_color":
		return bot.RightEarColor(p.Color)
	case "ear_color":
		return bot.EarColor(p.Color)
	case "head_color":
		return bot.HeadColor(p.Color)
	case "head_yaw":
		return bot.HeadYaw(p.Angle)
	case "head_pitch":
		return bot.HeadPitch(p.Angle)
	case "say":
		return bot.Say(p.Sound)
	case "drive":
		return bot.Drive(p.Speed)
	case "spin":
		return bot.Spin(p.Speed)
	case "stop":
		return bot.Stop()
	case "turn":
		return bot.Turn(p.Degrees)
	case "move":
		speed := p.Speed
		if speed == 0 {
			speed = bot.Config().MoveSpeedMMPS
		}
		noTurn := true
		if p.NoTurn != nil {
			noTurn = *p.NoTurn
		}
		return bot.MoveAt(p.Distance, speed, noTurn)
	case "blink":
		return bot.Blink()
	default:
		return morse.ErrUnknownCommand
	}
}

// buildFrame encodes a named operation without sending anything.
// ear_color yields its two frames back to back; blink is not here,
// its frames only mean something with the delay between them.
func (s *Server) buildFrame(name string, p CommandParams) ([]byte, error) {
	cfg := s.Robot.Config()
	switch name {
	case "reset":
		mode := byte(p.Mode)
		if p.Mode == 0 {
			mode = morse.ResetClear
		}
		return morse.ResetFrame(mode)
	case "eye":
		return morse.EyeFrame(p.Value)
	case "eye_brightness":
		return morse.EyeBrightnessFrame(p.Value)
	case "tail_brightness":
		return morse.TailBrightnessFrame(p.Value)
	case "neck_color":
		return morse.NeckColorFrame(p.Color)
	case "left_ear_color":
		return morse.LeftEarColorFrame(p.Color)
	case "right_ear_color":
		return morse.RightEarColorFrame(p.Color)
	case "ear_color":
		left, err := morse.LeftEarColorFrame(p.Color)
		if err != nil {
			return nil, err
		}
		right, err := morse.RightEarColorFrame(p.Color)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case "head_color":
		return morse.HeadColorFrame(p.Color)
	case "head_yaw":
		return morse.HeadYawFrame(p.Angle)
	case "head_pitch":
		return morse.HeadPitchFrame(p.Angle)
	case "say":
		return morse.SayFrame(p.Sound)
	case "drive":
		return morse.DriveFrame(p.Speed)
	case "spin":
		return morse.SpinFrame(p.Speed)
	case "stop":
		return morse.StopFrame()
	case "turn":
		return morse.TurnFrame(p.Degrees, float64(cfg.TurnSpeedDPS))
	case "move":
		speed := p.Speed
		if speed == 0 {
			speed = cfg.MoveSpeedMMPS
		}
		noTurn := true
		if p.NoTurn != nil {
			noTurn = *p.NoTurn
		}
		return morse.MoveFrame(p.Distance, speed, noTurn)
	default:
		return nil, morse.ErrUnknownCommand
	}
}

// Command POST: dispatches {name} with json-encoded CommandParams body
// to the robot, replies with a fresh snapshot.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var p CommandParams
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			log.Println("error decoding json:", err)
			http.Error(w, "couldn't decode provided json", http.StatusUnprocessableEntity)
			return
		}
	}
	if err := s.dispatch(name, p); err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(s.Robot.Snapshot())
}

// DryFrame GET: encodes {name} from query parameters and replies with
// the hex frame, nothing goes out on the link.
func (s *Server) DryFrame(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	frame, err := s.buildFrame(name, paramsFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(struct {
		Name  string
		Frame string
	}{name, fmt.Sprintf("%x", frame)})
}

func paramsFromQuery(r *http.Request) (p CommandParams) {
	atoi := func(key string) int {
		if v, ok := r.URL.Query()[key]; ok {
			if i, err := strconv.Atoi(v[0]); err == nil {
				return i
			}
		}
		return 0
	}
	p.Value = atoi("value")
	p.Mode = atoi("mode")
	p.Angle = atoi("angle")
	p.Speed = atoi("speed")
	p.Degrees = atoi("degrees")
	p.Distance = atoi("distance")
	p.Color = r.URL.Query().Get("color")
	p.Sound = r.URL.Query().Get("sound")
	if v, ok := r.URL.Query()["no_turn"]; ok {
		if b, err := strconv.ParseBool(v[0]); err == nil {
			p.NoTurn = &b
		}
	}
	return p
}

// Websocket pushes a Snapshot every WebsocketInterval, the poll query
// parameter overrides the interval.
func (s *Server) Websocket(w http.ResponseWriter, r *http.Request) {
	var interval = time.Duration(s.Config.Web.WebsocketInterval)
	if v, ok := r.URL.Query()["poll"]; ok {
		if d, err := time.ParseDuration(v[0]); err == nil {
			interval = d
		}
	}
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("error subscribing to websocket:", err)
		http.Error(w, "error subscribing to websocket", 500)
		return
	}

	if s.Config.Web.Verbose {
		log.Printf("websocket - subscription from %s (pollrate: %s)", conn.RemoteAddr(), interval)
	}

	go func(conn *websocket.Conn, s *Server) {
		var err error
		for {
			err = conn.WriteJSON(s.Robot.Snapshot())
			if err != nil {
				if s.Config.Web.Verbose {
					log.Printf("websocket - lost connection to %s", conn.RemoteAddr())
				}
				conn.Close()
				return
			}
			<-time.After(interval)
		}
	}(conn, s)
}

// RobotConfigHandler POST: s.Robot.SetConfig() (json encoded)
//
//	GET: gets current s.Robot.Config()
func (s *Server) RobotConfigHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		// copy current config, this allows for setting only a subset of the whole config
		var cfg morse.Config = s.Robot.Config()
		err := json.NewDecoder(r.Body).Decode(&cfg)
		if err != nil {
			log.Println("error decoding json:", err)
			http.Error(w, "couldn't decode provided json", http.StatusUnprocessableEntity)
			return
		}

		err = s.Robot.SetConfig(&cfg)
		if err != nil {
			log.Println("error setting config:", err)
			http.Error(w, "error setting config", http.StatusInternalServerError)
			return
		}
		s.Config.Robot = cfg

		// save newly set config
		err = util.WriteTomlFile(s.Config, s.cfgPath)
		if err != nil {
			log.Println("error writing config:", err)
		}
	case http.MethodGet:
	default:
		http.Error(w, fmt.Sprintf("unexpected http-method (%s)", r.Method), http.StatusMethodNotAllowed)
		return
	}

	// encode robot config regardless of http method
	w.WriteHeader(200)
	_ = json.NewEncoder(w).Encode(s.Robot.Config())
}

// Snapshot encodes snapshot as json to w.
func (s *Server) Snapshot(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.Robot.Snapshot())
}

// History encodes the robot's command history as json to w.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.Robot.History())
}

// Sessions lists saved session logs.
func (s *Server) Sessions(w http.ResponseWriter, r *http.Request) {
	infos, err := ListSessionLogs(s.Config.Web.SessionDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(infos)
}

func (s *Server) StopRobot(w http.ResponseWriter, r *http.Request) {
	if err := s.Robot.Stop(); err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}
	w.Write([]byte("robot stopped"))
}

type TemplateData struct {
	ListenAddr string
	State      string
	Sent       int
	Last       morse.CommandRecord
	Config     morse.Config
	Version    string
}

// Home serves the panel's homepage, from StaticDir when a home.html
// exists there, from the built-in template otherwise.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	snap := s.Robot.Snapshot()
	data := TemplateData{
		ListenAddr: s.Config.Web.ListenAddr,
		State:      snap.State.String(),
		Sent:       snap.Sent,
		Last:       snap.Last,
		Config:     s.Robot.Config(),
		Version:    s.Config.Web.version,
	}

	var tpl *template.Template
	if s.Config.Web.StaticDir != "" {
		if t, err := template.ParseFiles(filepath.Join(s.Config.Web.StaticDir, "html", "home.html")); err == nil {
			tpl = t
		}
	}
	if tpl == nil {
		tpl = template.Must(template.New("home").Parse(homeHTML))
	}
	if err := tpl.Execute(w, data); err != nil {
		serr := fmt.Sprintf("error executing home template: %s", err)
		log.Println(serr)
		http.Error(w, serr, http.StatusInternalServerError)
	}
}

const homeHTML = `<!doctype html>
<html>
<head><title>morse {{.Version}}</title></head>
<body>
<h1>morse panel</h1>
<p>state: {{.State}} - frames sent: {{.Sent}}</p>
<p>last command: {{.Last.Name}} {{.Last.Frame}} {{.Last.Error}}</p>
<p>drive speed: {{.Config.DriveSpeed}} - move speed: {{.Config.MoveSpeedMMPS}}mm/s</p>
</body>
</html>
`
