package models

import "support_widget/internal/types"

// ChatResponder 客服回复服务接口
type ChatResponder interface {
	// Greeting 返回进入聊天时的问候语
	Greeting() string

	// Reply 根据当前聊天记录生成一条回复
	Reply(history []types.ChatMessage) string
}
