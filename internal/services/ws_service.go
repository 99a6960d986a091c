package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"support_widget/internal/config"
	"support_widget/internal/models"
	"support_widget/internal/types"
)

// WSService WebSocket服务
// 每条连接对应一个挂件会话，连接断开即移除会话。
type WSService struct {
	manager    *SessionManager
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewWSService 创建新的WebSocket服务实例
func NewWSService(manager *SessionManager, cfg config.WebSocketConfig) *WSService {
	return &WSService{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // 跨域已由中间件统一处理
			},
		},
		pingPeriod: time.Duration(cfg.PingPeriod) * time.Second,
		pongWait:   time.Duration(cfg.PongWait) * time.Second,
	}
}

// HandleConnection 处理WebSocket连接
func (s *WSService) HandleConnection(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("升级WebSocket连接失败: %v", err)
		return
	}

	sink := &wsSink{conn: conn}
	session, err := s.manager.Create(c.Query("session_id"), sink)
	if err != nil {
		log.Printf("创建会话失败: %v", err)
		sink.TransportError("会话创建失败")
		conn.Close()
		return
	}

	log.Printf("会话 %s 连接建立", session.ID())

	defer func() {
		s.manager.Remove(session.ID())
		conn.Close()
		log.Printf("会话 %s 连接关闭", session.ID())
	}()

	// 心跳保活
	stopPing := make(chan struct{})
	defer close(stopPing)
	go s.pingLoop(sink, stopPing)

	conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	// 推送初始状态
	sink.StateChanged(session.Snapshot())

	for {
		var msg models.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("会话 %s 读取消息错误: %v", session.ID(), err)
			}
			return
		}
		s.manager.Touch(session.ID())
		s.dispatch(session, msg)
	}
}

// dispatch 将线上消息转为会话操作
func (s *WSService) dispatch(session *WidgetSession, msg models.ClientMessage) {
	switch msg.Type {
	case models.ClientOpenDialog:
		session.OpenDialog()
	case models.ClientCloseDialog:
		session.CloseDialog()
	case models.ClientSelectMethod:
		session.SelectMethod(msg.Method)
	case models.ClientSendMessage:
		session.SendMessage(msg.Text)
	case models.ClientUpdateDraft:
		session.UpdateDraft(msg.Text)
	case models.ClientToggleMute:
		session.ToggleMute()
	case models.ClientToggleTranscript:
		session.ToggleTranscript()
	case models.ClientMinimize:
		session.Minimize()
	case models.ClientEndSession:
		session.EndSession()
	case models.ClientKey:
		session.HandleKey(msg.Key, msg.Alt)
	default:
		log.Printf("会话 %s 收到未知消息类型: %s", session.ID(), msg.Type)
	}
}

// pingLoop 周期发送ping帧直到连接结束
func (s *WSService) pingLoop(sink *wsSink, stop <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := sink.ping(); err != nil {
				return
			}
		}
	}
}

// wsSink 将会话通知写回WebSocket连接
// 写互斥锁串行化事件循环推送与心跳帧。
type wsSink struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsSink) send(msg models.ServerMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(msg); err != nil {
		log.Printf("发送消息失败: %v", err)
	}
}

func (w *wsSink) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// StateChanged 推送完整状态快照
func (w *wsSink) StateChanged(state types.SessionState) {
	w.send(models.ServerMessage{Type: models.ServerState, State: &state})
}

// AudioLevels 推送音量频带
func (w *wsSink) AudioLevels(levels types.AudioLevels) {
	w.send(models.ServerMessage{Type: models.ServerAudioLevels, Levels: &levels})
}

// SessionEnded 通知会话已结束
func (w *wsSink) SessionEnded() {
	w.send(models.ServerMessage{Type: models.ServerSessionEnded})
}

// TransportError 推送可关闭的错误通知
func (w *wsSink) TransportError(message string) {
	w.send(models.ServerMessage{Type: models.ServerError, Message: message})
}
