package models

import "support_widget/internal/types"

// VoiceTransportCallbacks 语音传输事件回调
type VoiceTransportCallbacks struct {
	// OnPhase 连接阶段变化
	OnPhase func(phase types.ConnectionPhase)

	// OnTrack 远端客服音轨存在性变化
	OnTrack func(present bool)

	// OnLevels 双轨多频段音量更新，轨道不存在时对应切片为空
	OnLevels func(user, agent []float64)

	// OnError 传输错误，不改变连接阶段
	OnError func(err error)
}

// VoiceTransport 外部实时语音传输接口
type VoiceTransport interface {
	// SetCallbacks 注册事件回调，必须在Connect之前调用
	SetCallbacks(cb VoiceTransportCallbacks)

	// Connect 发起连接，重复调用无效果
	Connect() error

	// Disconnect 断开连接并释放资源
	Disconnect() error

	// SetMicrophoneEnabled 开关本地麦克风，指令幂等
	SetMicrophoneEnabled(enabled bool) error
}

// VoiceTransportFactory 按会话创建语音传输实例
type VoiceTransportFactory func(sessionID string) VoiceTransport
