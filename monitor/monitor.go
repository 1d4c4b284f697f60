// Package monitor serves the state of a simulated display over HTTP and
// accepts keystrokes for it.
package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/harveysanders/lcdterm/simbus"
)

// Source is the display being monitored. *simbus.Controller implements it.
type Source interface {
	Snapshot() simbus.State
	Instructions() []byte
	DDRAM(addr byte) byte
}

// Server is the monitor's HTTP front end.
type Server struct {
	src  Source
	keys chan<- byte
	log  *slog.Logger
}

// New returns a Server. keys receives bytes POSTed to /api/keys; nil
// disables the endpoint.
func New(src Source, keys chan<- byte, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Server{src: src, keys: keys, log: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.state).Methods(http.MethodGet)
	r.HandleFunc("/api/lines", s.lines).Methods(http.MethodGet)
	r.HandleFunc("/api/lines/{row:[1-4]}", s.line).Methods(http.MethodGet)
	r.HandleFunc("/api/ddram/{addr}", s.ddram).Methods(http.MethodGet)
	r.HandleFunc("/api/instructions", s.instructions).Methods(http.MethodGet)
	if s.keys != nil {
		r.HandleFunc("/api/keys", s.postKeys).Methods(http.MethodPost)
	}
	return r
}

// Serve serves on ln until it fails.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("monitor:listening", slog.String("addr", ln.Addr().String()))
	return http.Serve(ln, s.Handler())
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.src.Snapshot())
}

func (s *Server) lines(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.src.Snapshot().Lines)
}

func (s *Server) line(w http.ResponseWriter, r *http.Request) {
	row, _ := strconv.Atoi(mux.Vars(r)["row"])
	s.writeJSON(w, s.src.Snapshot().Lines[row-1])
}

func (s *Server) ddram(w http.ResponseWriter, r *http.Request) {
	addr, err := strconv.ParseUint(mux.Vars(r)["addr"], 0, 8)
	if err != nil || addr > 0x7F {
		http.Error(w, "address must be 0x00-0x7F", http.StatusBadRequest)
		return
	}
	v := s.src.DDRAM(byte(addr))
	s.writeJSON(w, map[string]any{
		"address": fmt.Sprintf("0x%02X", addr),
		"value":   v,
	})
}

func (s *Server) instructions(w http.ResponseWriter, _ *http.Request) {
	instr := s.src.Instructions()
	out := make([]string, len(instr))
	for i, b := range instr {
		out[i] = fmt.Sprintf("0x%02X", b)
	}
	s.writeJSON(w, out)
}

func (s *Server) postKeys(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	accepted := 0
	for _, b := range body {
		select {
		case s.keys <- b:
			accepted++
		default:
		}
	}
	s.log.Debug("monitor:keys", slog.Int("received", len(body)), slog.Int("accepted", accepted))
	status := http.StatusAccepted
	if accepted < len(body) {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]int{"accepted": accepted})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("monitor:encode", slog.String("err", err.Error()))
	}
}
