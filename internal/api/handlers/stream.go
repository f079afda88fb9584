package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/preset"
	"github.com/softwarewrighter/midi-cli/internal/services"
)

const (
	wsReadLimit    = 64 << 10
	wsWriteTimeout = 10 * time.Second
	wsIdleTimeout  = 5 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is the text frame sent for every request on the compose
// socket. A successful reply is followed by one binary frame holding the
// MIDI file.
type StreamMessage struct {
	Type   string          `json:"type"`
	Error  string          `json:"error,omitempty"`
	Result *preset.Result  `json:"result,omitempty"`
	Bytes  int             `json:"bytes,omitempty"`
	Echo   json.RawMessage `json:"request,omitempty"`
}

type StreamHandler struct {
	gen *services.GenerationService
}

func NewStreamHandler(gen *services.GenerationService) *StreamHandler {
	return &StreamHandler{gen: gen}
}

// Compose upgrades to a websocket and answers each preset request frame
// until the client goes away.
func (h *StreamHandler) Compose(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.Fields{"error": err.Error()})
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	ctx := c.Request.Context()
	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", logger.Fields{"error": err.Error()})
			}
			return
		}
		if msgType != websocket.TextMessage {
			if err := h.reply(conn, StreamMessage{Type: "error", Error: "expected a JSON text frame"}, nil); err != nil {
				return
			}
			continue
		}

		var req preset.Request
		if err := json.Unmarshal(data, &req); err != nil {
			if err := h.reply(conn, StreamMessage{Type: "error", Error: "invalid request: " + err.Error(), Echo: data}, nil); err != nil {
				return
			}
			continue
		}

		res, midiData, err := h.gen.Compose(ctx, req)
		if err != nil {
			if err := h.reply(conn, StreamMessage{Type: "error", Error: err.Error(), Echo: data}, nil); err != nil {
				return
			}
			continue
		}
		if err := h.reply(conn, StreamMessage{Type: "result", Result: res, Bytes: len(midiData)}, midiData); err != nil {
			return
		}
	}
}

func (h *StreamHandler) reply(conn *websocket.Conn, msg StreamMessage, payload []byte) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	if payload == nil {
		return nil
	}
	return conn.WriteMessage(websocket.BinaryMessage, payload)
}
