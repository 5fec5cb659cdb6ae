package webservice

import (
	"fmt"
	"log"
	"net/http"
)

type wsError struct {
	Error   error
	Message string
	Code    int
}

func errInternal(err error, message string) *wsError {
	return &wsError{Error: err, Message: message, Code: http.StatusInternalServerError}
}

func errBadRequest(err error, message string) *wsError {
	return &wsError{Error: err, Message: message, Code: http.StatusBadRequest}
}

type wsHandler func(http.ResponseWriter, *http.Request) *wsError

// ServeHTTP reports handler errors to the client and logs them.
func (fn wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if e := fn(w, r); e != nil {
		msg := fmt.Sprintf("%s: %v", e.Message, e.Error)
		log.Println(r.URL.Path, msg)
		http.Error(w, msg, e.Code)
	}
}
