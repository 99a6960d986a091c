package services

import (
	"math/rand"
	"sync"
	"time"

	"support_widget/internal/config"
	"support_widget/internal/types"
)

// ResponderService 预置回复的客服应答服务
// 真实的AI回复由外部系统生成，这里仅提供可复现的桩实现
type ResponderService struct {
	greeting string
	replies  []string
	mu       sync.Mutex
	rnd      *rand.Rand
}

// NewResponderService 创建新的应答服务实例
func NewResponderService(cfg config.ChatConfig) *ResponderService {
	return &ResponderService{
		greeting: cfg.Greeting,
		replies:  cfg.Replies,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Greeting 返回进入聊天时的问候语
func (s *ResponderService) Greeting() string {
	return s.greeting
}

// Reply 从候选列表中随机选取一条回复
func (s *ResponderService) Reply(history []types.ChatMessage) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replies[s.rnd.Intn(len(s.replies))]
}
