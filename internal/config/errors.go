package config

import "errors"

// 配置相关错误
var (
	ErrEmptyVoiceURL = errors.New("语音传输服务器地址不能为空")
	ErrEmptyGreeting = errors.New("问候语不能为空")
	ErrEmptyReplies  = errors.New("回复列表不能为空")
	ErrBadGreetDelay = errors.New("问候延迟必须大于0")
	ErrBadReplyDelay = errors.New("回复延迟必须大于0")
	ErrBadMaxRetries = errors.New("最大重试次数不能为负数")
)
