package webservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nickng/dinephil/dinner"
	"github.com/nickng/dinephil/logwriter"
	"github.com/nickng/dinephil/model"
	"github.com/nickng/dinephil/ordering"
	"github.com/nickng/dinephil/philosopher"
)

// MaxHold caps the hold time a client may ask for.
const MaxHold = 5 * time.Second

// configFor applies the "hold" and "order" query parameters.
func (s *Server) configFor(r *http.Request) (dinner.Config, *wsError) {
	cfg := s.config
	q := r.URL.Query()
	if h := q.Get("hold"); h != "" {
		hold, err := time.ParseDuration(h)
		if err != nil {
			return cfg, errBadRequest(err, "Bad hold")
		}
		if hold < 0 || hold > MaxHold {
			return cfg, errBadRequest(fmt.Errorf("%s not in [0, %s]", hold, MaxHold), "Bad hold")
		}
		cfg.Hold = hold
	}
	if o := q.Get("order"); o != "" {
		order, err := philosopher.ParseOrder(o)
		if err != nil {
			return cfg, errBadRequest(err, "Bad order")
		}
		cfg.Order = order
	}
	return cfg, nil
}

// dinnerFor validates the dinner asked for by r without running it.
func (s *Server) dinnerFor(r *http.Request) (*dinner.Dinner, int, *wsError) {
	cfg, e := s.configFor(r)
	if e != nil {
		return nil, 0, e
	}
	d, err := dinner.New(cfg, nil, nil)
	if err != nil {
		return nil, 0, errInternal(err, "Cannot set the table")
	}
	return d, d.Forks(), nil
}

func writeJSON(w http.ResponseWriter, v interface{}) *wsError {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return errInternal(err, "Cannot encode reply")
	}
	return nil
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) *wsError {
	if r.URL.Path != "/" {
		return &wsError{Error: fmt.Errorf("%s", r.URL.Path), Message: "Not found", Code: http.StatusNotFound}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, `dinephil demo

/check  circular wait verdict (JSON)
/dot    fork order graph (DOT)
/cfsm   communicating finite state machines
/migo   MiGo types
/run    run the dinner (JSON)

Query parameters: hold=<duration>, order=lowest-first|left-first
`)
	return nil
}

func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) *wsError {
	d, forks, e := s.dinnerFor(r)
	if e != nil {
		return e
	}
	res := ordering.Check(d.Seating(), forks, d.Order(), nil)
	reply := struct {
		Order        string          `json:"order"`
		DeadlockFree bool            `json:"deadlockFree"`
		Cycle        []ordering.Edge `json:"cycle,omitempty"`
		Deviating    []string        `json:"deviating,omitempty"`
		Verdict      string          `json:"verdict"`
	}{
		Order:        res.Order,
		DeadlockFree: res.DeadlockFree(),
		Cycle:        res.Cycle,
		Deviating:    res.Deviating,
		Verdict:      res.String(),
	}
	return writeJSON(w, &reply)
}

func (s *Server) dotHandler(w http.ResponseWriter, r *http.Request) *wsError {
	d, forks, e := s.dinnerFor(r)
	if e != nil {
		return e
	}
	buf := new(bytes.Buffer)
	if err := ordering.Build(d.Seating(), forks, d.Order()).WriteDot(buf); err != nil {
		return errInternal(err, "Cannot render graph")
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	buf.WriteTo(w)
	return nil
}

func (s *Server) cfsmHandler(w http.ResponseWriter, r *http.Request) *wsError {
	d, forks, e := s.dinnerFor(r)
	if e != nil {
		return e
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := model.NewCFSMs(d.Seating(), forks, d.Order()).WriteTo(w); err != nil {
		return errInternal(err, "Cannot write CFSMs")
	}
	return nil
}

func (s *Server) migoHandler(w http.ResponseWriter, r *http.Request) *wsError {
	d, forks, e := s.dinnerFor(r)
	if e != nil {
		return e
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, model.NewMigo(d.Seating(), forks, d.Order()).String())
	return nil
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) *wsError {
	cfg, e := s.configFor(r)
	if e != nil {
		return e
	}
	if cfg.Order != nil && cfg.Order != philosopher.LowestFirst {
		// A left-first dinner may never return.
		return errBadRequest(fmt.Errorf("order %s", cfg.Order), "Refusing to run a dinner that can deadlock")
	}
	out := new(bytes.Buffer)
	logs := new(bytes.Buffer)
	d, err := dinner.New(cfg, logwriter.Synced(out), log.New(logs, "", 0))
	if err != nil {
		return errInternal(err, "Cannot set the table")
	}
	report, runErr := d.Run()
	reply := struct {
		Output string         `json:"output"`
		Log    string         `json:"log"`
		Report *dinner.Report `json:"report"`
		Error  string         `json:"error,omitempty"`
	}{
		Output: out.String(),
		Log:    logs.String(),
		Report: report,
	}
	if runErr != nil {
		reply.Error = runErr.Error()
	}
	return writeJSON(w, &reply)
}
