package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"support_widget/internal/models"
)

// SessionManager 会话注册表
// 以空闲TTL管理会话生命周期，超时未活动的会话被逐出并关闭。
type SessionManager struct {
	sessions  *gocache.Cache
	factory   models.VoiceTransportFactory
	responder models.ChatResponder
	opts      SessionOptions
	idleTTL   time.Duration
}

// NewSessionManager 创建会话注册表
func NewSessionManager(
	factory models.VoiceTransportFactory,
	responder models.ChatResponder,
	opts SessionOptions,
	idleTTL, cleanupInterval time.Duration,
) *SessionManager {
	c := gocache.New(idleTTL, cleanupInterval)
	c.OnEvicted(func(id string, v interface{}) {
		if session, ok := v.(*WidgetSession); ok {
			log.Printf("会话 %s 被逐出，关闭中", id)
			session.Close()
		}
	})
	return &SessionManager{
		sessions:  c,
		factory:   factory,
		responder: responder,
		opts:      opts,
		idleTTL:   idleTTL,
	}
}

// Create 创建并登记新会话，id为空时自动生成
func (m *SessionManager) Create(id string, sink models.SessionSink) (*WidgetSession, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, found := m.sessions.Get(id); found {
		return nil, fmt.Errorf("会话 %s 已存在", id)
	}

	session := NewWidgetSession(id, m.factory(id), m.responder, sink, m.opts)
	if err := m.sessions.Add(id, session, m.idleTTL); err != nil {
		session.Close()
		return nil, fmt.Errorf("登记会话 %s 失败: %v", id, err)
	}
	log.Printf("会话 %s 已创建", id)
	return session, nil
}

// Get 按ID查找会话
func (m *SessionManager) Get(id string) (*WidgetSession, bool) {
	v, found := m.sessions.Get(id)
	if !found {
		return nil, false
	}
	session, ok := v.(*WidgetSession)
	return session, ok
}

// Touch 刷新会话的空闲TTL
func (m *SessionManager) Touch(id string) {
	if v, found := m.sessions.Get(id); found {
		m.sessions.Set(id, v, m.idleTTL)
	}
}

// Remove 移除并关闭会话
func (m *SessionManager) Remove(id string) {
	m.sessions.Delete(id) // 触发OnEvicted关闭会话
}

// Count 返回当前会话数
func (m *SessionManager) Count() int {
	return m.sessions.ItemCount()
}
