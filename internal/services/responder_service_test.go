package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support_widget/internal/config"
	"support_widget/internal/types"
)

func TestResponderService_Greeting(t *testing.T) {
	svc := NewResponderService(config.ChatConfig{
		Greeting: "您好，有什么可以帮您？",
		Replies:  []string{"好的"},
	})

	assert.Equal(t, "您好，有什么可以帮您？", svc.Greeting())
}

func TestResponderService_Reply(t *testing.T) {
	replies := []string{"回复一", "回复二", "回复三"}
	svc := NewResponderService(config.ChatConfig{
		Greeting: "您好",
		Replies:  replies,
	})

	history := []types.ChatMessage{
		{ID: "1", Sender: types.SenderUser, Body: "在吗"},
	}

	// 回复始终来自候选列表
	for i := 0; i < 20; i++ {
		reply := svc.Reply(history)
		assert.Contains(t, replies, reply)
	}
}
