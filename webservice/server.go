// Package webservice runs a webservice to show a dinner and its analyses.
package webservice

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/nickng/dinephil/dinner"
)

// Server serves one dinner configuration.
type Server struct {
	listener net.Listener
	iface    string
	port     string
	config   dinner.Config
	mux      *http.ServeMux

	listenerMtx sync.Mutex
}

// NewServer creates a server demonstrating the dinner described by cfg.
func NewServer(iface string, port string, cfg dinner.Config) *Server {
	s := &Server{
		iface:  iface,
		port:   port,
		config: cfg,
		mux:    http.NewServeMux(),
	}
	s.mux.Handle("/", wsHandler(s.indexHandler))
	s.mux.Handle("/check", wsHandler(s.checkHandler))
	s.mux.Handle("/dot", wsHandler(s.dotHandler))
	s.mux.Handle("/cfsm", wsHandler(s.cfsmHandler))
	s.mux.Handle("/migo", wsHandler(s.migoHandler))
	s.mux.Handle("/run", wsHandler(s.runHandler))
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens and serves until the listener is closed.
func (s *Server) Start() error {
	listener, err := s.Listener()
	if err != nil {
		return err
	}
	log.Printf("Listening at %s", s.URL())
	return (&http.Server{Handler: s.mux}).Serve(listener)
}

// Close closes the listener.
func (s *Server) Close() {
	if l, err := s.Listener(); err == nil {
		l.Close()
	}
}

// URL is the address the server listens at.
func (s *Server) URL() string {
	l, err := s.Listener()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", l.Addr())
}

// Listener returns the listener, creating it on first use.
func (s *Server) Listener() (net.Listener, error) {
	s.listenerMtx.Lock()
	defer s.listenerMtx.Unlock()

	if s.listener != nil {
		return s.listener, nil
	}

	ifaceAndPort := net.JoinHostPort(s.iface, s.port)
	listener, err := net.Listen("tcp4", ifaceAndPort)
	if err != nil {
		return nil, err
	}

	s.listener = listener
	return s.listener, nil
}
