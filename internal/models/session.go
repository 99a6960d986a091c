// Package models 定义服务接口与数据模型
package models

import "support_widget/internal/types"

// SessionSink 会话对外输出接口，由展示层(WebSocket推送)实现
type SessionSink interface {
	// StateChanged 状态快照更新
	StateChanged(state types.SessionState)

	// AudioLevels 音量更新，仅用于渲染，不进入状态
	AudioLevels(levels types.AudioLevels)

	// SessionEnded 会话结束通知，每次EndSession动作触发一次
	SessionEnded()

	// TransportError 传输错误通知，可由用户关闭
	TransportError(message string)
}
