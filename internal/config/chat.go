package config

import "time"

// ChatConfig 文字聊天配置
type ChatConfig struct {
	GreetingDelayMs int      `yaml:"greeting_delay_ms"` // 进入聊天后发送问候语的延迟(毫秒)
	ReplyDelayMs    int      `yaml:"reply_delay_ms"`    // 收到用户消息后回复的延迟(毫秒)
	Greeting        string   `yaml:"greeting"`          // 问候语
	Replies         []string `yaml:"replies"`           // 候选回复列表
}

// applyDefaults 填充缺省配置
func (c *ChatConfig) applyDefaults() {
	if c.GreetingDelayMs == 0 {
		c.GreetingDelayMs = 1000
	}
	if c.ReplyDelayMs == 0 {
		c.ReplyDelayMs = 1500
	}
	if c.Greeting == "" {
		c.Greeting = "Hello! How can I help you today?"
	}
	if len(c.Replies) == 0 {
		c.Replies = []string{
			"Thanks for reaching out! Let me help you with that.",
			"I understand. Let me look into this for you.",
			"That's a great question. Here's what I can tell you...",
			"I'll be happy to assist you with this issue.",
		}
	}
}

// GreetingDelay 问候延迟
func (c *ChatConfig) GreetingDelay() time.Duration {
	return time.Duration(c.GreetingDelayMs) * time.Millisecond
}

// ReplyDelay 回复延迟
func (c *ChatConfig) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMs) * time.Millisecond
}

// Validate 验证聊天配置
func (c *ChatConfig) Validate() error {
	if c.Greeting == "" {
		return ErrEmptyGreeting
	}
	if len(c.Replies) == 0 {
		return ErrEmptyReplies
	}
	if c.GreetingDelayMs <= 0 {
		return ErrBadGreetDelay
	}
	if c.ReplyDelayMs <= 0 {
		return ErrBadReplyDelay
	}
	return nil
}
