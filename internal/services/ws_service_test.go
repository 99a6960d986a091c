package services

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support_widget/internal/config"
	"support_widget/internal/models"
	"support_widget/internal/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, _ := newTestManager(t)
	wsService := NewWSService(manager, config.WebSocketConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		PingPeriod:      30,
		PongWait:        60,
	})

	r := gin.New()
	r.GET("/ws/widget", wsService.HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, manager
}

func dialWidget(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/widget"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil 读取服务端消息直到条件满足
func readUntil(t *testing.T, conn *websocket.Conn, cond func(models.ServerMessage) bool) models.ServerMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for {
		var msg models.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if cond(msg) {
			return msg
		}
		require.True(t, time.Now().Before(deadline), "未等到预期消息")
	}
}

func TestWSService_InitialStatePush(t *testing.T) {
	srv, manager := newTestServer(t)
	conn := dialWidget(t, srv)

	msg := readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState
	})
	require.NotNil(t, msg.State)
	assert.Equal(t, types.ModeCollapsed, msg.State.Mode)
	assert.Empty(t, msg.State.Messages)
	assert.Equal(t, 1, manager.Count())
}

func TestWSService_TextChatFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWidget(t, srv)

	require.NoError(t, conn.WriteJSON(models.ClientMessage{Type: models.ClientOpenDialog}))
	readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState && m.State.Mode == types.ModeChoosingMethod
	})

	require.NoError(t, conn.WriteJSON(models.ClientMessage{
		Type:   models.ClientSelectMethod,
		Method: types.MethodText,
	}))
	readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState && m.State.Mode == types.ModeInTextChat
	})

	// 问候语推送
	greeted := readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState && len(m.State.Messages) == 1
	})
	assert.Equal(t, types.SenderAgent, greeted.State.Messages[0].Sender)

	// 用户消息与自动回复
	require.NoError(t, conn.WriteJSON(models.ClientMessage{
		Type: models.ClientSendMessage,
		Text: "订单没收到",
	}))
	replied := readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState && len(m.State.Messages) == 3
	})
	assert.Equal(t, types.SenderUser, replied.State.Messages[1].Sender)
	assert.Equal(t, "订单没收到", replied.State.Messages[1].Body)
	assert.Equal(t, types.SenderAgent, replied.State.Messages[2].Sender)
}

func TestWSService_EndSession(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWidget(t, srv)

	require.NoError(t, conn.WriteJSON(models.ClientMessage{Type: models.ClientOpenDialog}))
	require.NoError(t, conn.WriteJSON(models.ClientMessage{
		Type:   models.ClientSelectMethod,
		Method: types.MethodText,
	}))
	require.NoError(t, conn.WriteJSON(models.ClientMessage{Type: models.ClientEndSession}))

	readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerSessionEnded
	})
	reset := readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState && m.State.Mode == types.ModeCollapsed
	})
	assert.Empty(t, reset.State.Messages)
}

func TestWSService_DisconnectRemovesSession(t *testing.T) {
	srv, manager := newTestServer(t)
	conn := dialWidget(t, srv)

	readUntil(t, conn, func(m models.ServerMessage) bool {
		return m.Type == models.ServerState
	})
	require.Equal(t, 1, manager.Count())

	conn.Close()
	require.Eventually(t, func() bool {
		return manager.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
