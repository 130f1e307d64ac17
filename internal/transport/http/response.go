package http

import (
	"encoding/json"
	"log"
	"net/http"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the body shape of every REST response.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []any  `json:"data"`
}

func writeSuccess(w http.ResponseWriter, code int, message string, data ...any) {
	if data == nil {
		data = []any{}
	}
	writeJSON(w, code, envelope{Status: statusSuccess, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: statusError, Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
