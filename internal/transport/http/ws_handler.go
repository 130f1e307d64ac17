package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// WSHandler streams answers submitted to a quiz over a websocket.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type subscribedPayload struct {
	QuizID string `json:"quizId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and forwards every answer submitted to the quiz
// until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	if err := conn.WriteJSON(outboundMessage[subscribedPayload]{Type: "subscribed", Payload: subscribedPayload{QuizID: quizID}}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	// only this goroutine writes from here on
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for answer := range updates {
			if err := conn.WriteJSON(outboundMessage[domain.Answer]{Type: "answer", Payload: answer}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// the feed is one-way; reads only detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}
