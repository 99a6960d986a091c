package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support_widget/internal/models"
)

func newTestManager(t *testing.T) (*SessionManager, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{}
	factory := models.VoiceTransportFactory(func(sessionID string) models.VoiceTransport {
		return transport
	})
	manager := NewSessionManager(factory, &fixedResponder{greeting: "您好", reply: "收到"},
		testOptions(), time.Minute, time.Minute)
	return manager, transport
}

func TestSessionManager_Create(t *testing.T) {
	manager, _ := newTestManager(t)

	session, err := manager.Create("s1", &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID())
	assert.Equal(t, 1, manager.Count())

	// 重复ID报错
	_, err = manager.Create("s1", &recordingSink{})
	assert.Error(t, err)

	// 空ID自动生成
	generated, err := manager.Create("", &recordingSink{})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID())
	assert.Equal(t, 2, manager.Count())
}

func TestSessionManager_GetAndRemove(t *testing.T) {
	manager, transport := newTestManager(t)

	created, err := manager.Create("s1", &recordingSink{})
	require.NoError(t, err)

	found, ok := manager.Get("s1")
	require.True(t, ok)
	assert.Same(t, created, found)

	_, ok = manager.Get("missing")
	assert.False(t, ok)

	// 移除触发会话关闭并挂断语音连接
	manager.Remove("s1")
	assert.Equal(t, 0, manager.Count())
	require.Eventually(t, func() bool {
		return transport.disconnectCount() >= 1
	}, 2*time.Second, 5*time.Millisecond)
}
