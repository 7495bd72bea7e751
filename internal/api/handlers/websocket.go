package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seungwoo7050/codex-pong-video/internal/game"
	"github.com/seungwoo7050/codex-pong-video/internal/service"
	"github.com/seungwoo7050/codex-pong-video/internal/websocket"
)

// WebSocketHandler 게임 방 WebSocket 연결 처리
type WebSocketHandler struct {
	registry    *game.Registry
	userService *service.UserService
}

// NewWebSocketHandler WebSocketHandler 생성
func NewWebSocketHandler(registry *game.Registry, userService *service.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		registry:    registry,
		userService: userService,
	}
}

// HandleGameWebSocket 게임 방 WebSocket 연결 엔드포인트
func (h *WebSocketHandler) HandleGameWebSocket(c *gin.Context) {
	// 인증 미들웨어에서 설정한 userId 가져오기
	userId, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId query parameter required"})
		return
	}

	user, err := h.userService.GetByID(userId.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// WebSocket 연결 업그레이드. 참가자 검증은 업그레이드 이후 세션에서 수행한다.
	websocket.ServeGame(h.registry, c.Writer, c.Request, user, roomID)
}
