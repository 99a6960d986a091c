package voice

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"support_widget/internal/models"
	"support_widget/internal/types"
)

// 语音服务事件类型
const (
	EVENT_PHASE  = "phase"
	EVENT_TRACK  = "track"
	EVENT_LEVELS = "levels"
	EVENT_MIC    = "mic"
)

// Config 语音服务配置
type Config struct {
	ServerURL         string
	SessionID         string
	HandshakeTimeout  time.Duration
	ReconnectInterval time.Duration
	MaxRetries        int
}

// event 语音服务下行事件
type event struct {
	Event   string    `json:"event"`
	Phase   string    `json:"phase,omitempty"`
	Present bool      `json:"present,omitempty"`
	User    []float64 `json:"user,omitempty"`
	Agent   []float64 `json:"agent,omitempty"`
}

// micFrame 麦克风控制帧
type micFrame struct {
	Event   string `json:"event"`
	Enabled bool   `json:"enabled"`
}

// WSClient 语音服务WebSocket客户端
type WSClient struct {
	config    Config
	conn      *websocket.Conn
	callbacks models.VoiceTransportCallbacks
	mu        sync.Mutex
	closed    bool
}

// NewWSClient 创建新的语音服务客户端
func NewWSClient(config Config) *WSClient {
	return &WSClient{config: config}
}

// SetCallbacks 设置事件回调，须在Connect之前调用
func (c *WSClient) SetCallbacks(callbacks models.VoiceTransportCallbacks) {
	c.callbacks = callbacks
}

// Connect 连接语音服务器，失败时按配置的间隔有限次重试
func (c *WSClient) Connect() error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.closed = false
	c.mu.Unlock()

	url := fmt.Sprintf("%s?session_id=%s", c.config.ServerURL, c.config.SessionID)
	log.Printf("正在连接语音服务器: %s", url)
	c.emitPhase(types.ConnPhaseConnecting)

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	var conn *websocket.Conn
	var err error
	for attempt := 0; ; attempt++ {
		conn, _, err = dialer.Dial(url, nil)
		if err == nil {
			break
		}
		if attempt >= c.config.MaxRetries {
			c.emitPhase(types.ConnPhaseDisconnected)
			return fmt.Errorf("连接失败，已达到最大重试次数: %v", err)
		}
		log.Printf("连接失败，将在 %v 后重试: %v", c.config.ReconnectInterval, err)
		time.Sleep(c.config.ReconnectInterval)
	}

	log.Printf("语音服务器连接成功")

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	c.emitPhase(types.ConnPhaseConnected)
	go c.receiveMessages(conn)

	return nil
}

// Disconnect 断开连接
func (c *WSClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		c.emitPhase(types.ConnPhaseDisconnected)
		return err
	}
	return nil
}

// SetMicrophoneEnabled 开关麦克风
func (c *WSClient) SetMicrophoneEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("语音服务器未连接")
	}

	frame := micFrame{Event: EVENT_MIC, Enabled: enabled}
	message, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %v", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return fmt.Errorf("发送消息失败: %v", err)
	}
	return nil
}

// receiveMessages 接收下行事件并分发回调
func (c *WSClient) receiveMessages(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(conn, err)
			return
		}

		var ev event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("解析消息失败: %v", err)
			c.emitError(fmt.Errorf("解析消息失败: %v", err))
			continue
		}

		switch ev.Event {
		case EVENT_PHASE:
			c.emitPhase(types.ConnectionPhase(ev.Phase))
		case EVENT_TRACK:
			c.emitTrack(ev.Present)
		case EVENT_LEVELS:
			c.emitLevels(ev.User, ev.Agent)
		default:
			log.Printf("收到未知事件类型: %s", ev.Event)
		}
	}
}

// handleReadError 读取失败后清理连接，不做自动重连
func (c *WSClient) handleReadError(conn *websocket.Conn, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != conn {
		return // 连接已被替换或主动关闭
	}
	c.conn.Close()
	c.conn = nil

	if !c.closed {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			log.Printf("语音连接异常关闭: %v", err)
		}
		c.emitError(fmt.Errorf("语音连接中断: %v", err))
	}
	c.emitPhase(types.ConnPhaseDisconnected)
}

func (c *WSClient) emitPhase(phase types.ConnectionPhase) {
	if c.callbacks.OnPhase != nil {
		c.callbacks.OnPhase(phase)
	}
}

func (c *WSClient) emitTrack(present bool) {
	if c.callbacks.OnTrack != nil {
		c.callbacks.OnTrack(present)
	}
}

func (c *WSClient) emitLevels(user, agent []float64) {
	if c.callbacks.OnLevels != nil {
		c.callbacks.OnLevels(user, agent)
	}
}

func (c *WSClient) emitError(err error) {
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(err)
	}
}
