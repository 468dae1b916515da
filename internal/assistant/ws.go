package assistant

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"bookhub/internal/logging"
	"bookhub/internal/validation"
	"bookhub/pkg/models"
)

const maxFrameBytes = 8 << 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler serves GET /ws/chat. Each inbound frame is either a JSON
// ChatRequest or plain text; each gets one reply event.
func WSHandler(a *Assistant, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.Query("user_id"))

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		ws.SetReadLimit(maxFrameBytes)
		cl := hub.join(ws, user)
		defer hub.leave(ws)

		ctx := c.Request.Context()
		logging.Ctx(ctx).Debug().Str("user_id", user).Msg("chat websocket opened")

		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				break
			}

			req, ok := decodeFrame(payload)
			if !ok {
				continue
			}
			if req.UserID == "" {
				req.UserID = cl.user
			}
			if err := validation.Struct(req); err != nil {
				if cl.sendEvent(Event{Type: EventError, Text: err.Error()}) != nil {
					break
				}
				continue
			}

			reply := a.Respond(ctx, req)
			if cl.sendEvent(Event{Type: EventReply, Reply: &reply}) != nil {
				break
			}
		}
	}
}

// decodeFrame accepts {"message": ..., "user_id": ...} or raw text.
func decodeFrame(payload []byte) (models.ChatRequest, bool) {
	var req models.ChatRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		req = models.ChatRequest{Message: string(payload)}
	}
	req.Message = strings.TrimSpace(req.Message)
	return req, req.Message != ""
}
