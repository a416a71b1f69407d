package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sagescript/sage_go_server/internal/pkg/jwt"
	"github.com/sagescript/sage_go_server/internal/pkg/response"
	"github.com/sagescript/sage_go_server/internal/pkg/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域已由 CORS 中间件和 token 校验把关
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub       *ws.Hub
	jwtSecret string
}

func NewWebSocketHandler(hub *ws.Hub, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// Handle 建立进度推送连接。浏览器的 WebSocket API 不能带自定义 header，token 走查询参数。
// GET /api/ws?token=...
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.AuthError(c, "missing token")
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		response.AuthError(c, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %d: %v", claims.UserID, err)
		return
	}

	client := &ws.Client{UserID: claims.UserID, Conn: conn}
	h.hub.Register(client)

	// 读循环只为感知断开，客户端消息直接丢弃
	go func() {
		defer func() {
			h.hub.Unregister(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
