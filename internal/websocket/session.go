package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seungwoo7050/codex-pong-video/internal/game"
	"github.com/seungwoo7050/codex-pong-video/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var (
	// ErrSessionClosed 이미 종료된 세션으로 전송 시도
	ErrSessionClosed = errors.New("websocket: session closed")
	// ErrSendBufferFull 송신 버퍼가 가득 참
	ErrSendBufferFull = errors.New("websocket: send buffer full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 프로덕션에서는 특정 origin만 허용
		return true
	},
}

// inboundMessage 클라이언트가 보내는 조작 메시지
type inboundMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	Direction string `json:"direction"`
}

// Session 게임 방 하나에 붙은 WebSocket 연결. game.Sender 구현.
type Session struct {
	registry *game.Registry
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
	userID   string
	done     chan struct{}
	logger   *zap.Logger
}

// NewSession 세션 생성
func NewSession(registry *game.Registry, conn *websocket.Conn, roomID, userID string) *Session {
	logger, _ := zap.NewProduction()
	return &Session{
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, 256),
		roomID:   roomID,
		userID:   userID,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send 스냅샷 페이로드를 송신 버퍼에 넣는다. 게임 루프를 막지 않도록 블로킹하지 않는다.
func (s *Session) Send(payload []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// readPump 클라이언트로부터 INPUT 메시지 읽기 (핑/퐁 유지)
func (s *Session) readPump() {
	defer func() {
		s.registry.UnregisterSession(s.roomID, s.userID)
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket read error",
					zap.String("roomId", s.roomID),
					zap.String("userId", s.userID),
					zap.Error(err))
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("Malformed client message ignored",
				zap.String("roomId", s.roomID),
				zap.String("userId", s.userID),
				zap.Error(err))
			continue
		}

		if msg.Type != "INPUT" {
			continue
		}

		roomID := msg.RoomID
		if roomID == "" {
			roomID = s.roomID
		}
		// 알 수 없는 방향은 ParsePaddleInput이 STAY로 처리한다
		s.registry.UpdateInput(roomID, s.userID, game.ParsePaddleInput(msg.Direction))
	}
}

// writePump 게임 루프가 넣은 페이로드를 클라이언트에게 전송
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Error("Failed to write message",
					zap.String("roomId", s.roomID),
					zap.String("userId", s.userID),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			// Ping 전송
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeGame WebSocket 연결을 업그레이드하고 게임 방 세션을 시작한다.
// 방 참가자가 아니면 연결 수락 후 즉시 닫는다.
func ServeGame(registry *game.Registry, w http.ResponseWriter, r *http.Request, user *models.User, roomID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	room := registry.FindRoom(roomID)
	if room == nil || !room.Contains(user.ID) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "not a participant of this room"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	session := NewSession(registry, conn, roomID, user.ID)
	go session.writePump()

	// READY: 현재 스냅샷으로 입장 통지
	ready := game.ServerMessage{
		Type:      game.MessageTypeReady,
		Snapshot:  room.CurrentSnapshot(),
		MatchType: room.MatchType(),
	}
	if payload, err := json.Marshal(ready); err == nil {
		session.Send(payload)
	}

	// 양쪽 참가자가 모두 등록되면 게임 루프가 시작된다
	registry.RegisterSession(room, user.ID, session)

	go session.readPump()
}
