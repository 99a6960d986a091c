// Package types 定义基本类型
package types

import "time"

// NumBands 音频可视化的频段数量
const NumBands = 7

// WidgetMode 挂件顶层模式
type WidgetMode string

// 定义挂件模式常量
const (
	ModeCollapsed      WidgetMode = "collapsed"       // 收起状态
	ModeChoosingMethod WidgetMode = "choosing_method" // 选择联系方式
	ModeInVoiceCall    WidgetMode = "in_voice_call"   // 语音通话中
	ModeInTextChat     WidgetMode = "in_text_chat"    // 文字聊天中
)

// CallPhase 语音通话阶段，仅在ModeInVoiceCall下有意义
type CallPhase string

// 定义通话阶段常量
const (
	PhaseConnecting CallPhase = "connecting" // 连接中
	PhaseActive     CallPhase = "active"     // 通话中
	PhaseEnded      CallPhase = "ended"      // 已结束
)

// ContactMethod 联系方式
type ContactMethod string

// 定义联系方式常量
const (
	MethodVoice ContactMethod = "voice" // 语音通话
	MethodText  ContactMethod = "text"  // 文字聊天
)

// Sender 消息发送方
type Sender string

// 定义消息发送方常量
const (
	SenderUser  Sender = "user"  // 访客
	SenderAgent Sender = "agent" // 客服
)

// ChatMessage 聊天消息，创建后不可变
type ChatMessage struct {
	ID     string    `json:"id"`      // 消息ID
	Sender Sender    `json:"sender"`  // 发送方
	Body   string    `json:"body"`    // 消息内容
	SentAt time.Time `json:"sent_at"` // 发送时间
}

// AudioLevels 双轨多频段音量，空切片表示无信号
type AudioLevels struct {
	User  []float64 `json:"user"`  // 本地麦克风轨
	Agent []float64 `json:"agent"` // 远端客服轨
}

// SessionState 挂件会话状态聚合
type SessionState struct {
	Mode                WidgetMode    `json:"mode"`                  // 挂件模式
	CallPhase           CallPhase     `json:"call_phase"`            // 通话阶段
	Muted               bool          `json:"muted"`                 // 本地静音意图
	TranscriptVisible   bool          `json:"transcript_visible"`    // 是否显示转写
	CallDurationSeconds int           `json:"call_duration_seconds"` // 通话时长(秒)
	Messages            []ChatMessage `json:"messages"`              // 聊天记录
	PendingInput        string        `json:"pending_input"`         // 未发送的草稿
}

// ActionType 状态机动作类型
type ActionType string

// 定义动作类型常量
const (
	ActionOpenDialog       ActionType = "open_dialog"        // 打开选择对话框
	ActionCloseDialog      ActionType = "close_dialog"       // 关闭选择对话框
	ActionSelectMethod     ActionType = "select_method"      // 选择联系方式
	ActionSetCallPhase     ActionType = "set_call_phase"     // 设置通话阶段
	ActionToggleMute       ActionType = "toggle_mute"        // 切换静音
	ActionToggleTranscript ActionType = "toggle_transcript"  // 切换转写显示
	ActionTickCallDuration ActionType = "tick_call_duration" // 通话计时
	ActionAppendMessage    ActionType = "append_message"     // 追加消息
	ActionUpdateDraft      ActionType = "update_draft"       // 更新草稿
	ActionEndSession       ActionType = "end_session"        // 结束会话
	ActionMinimize         ActionType = "minimize"           // 最小化
)

// Action 状态机动作，消息ID和时间戳由调用方生成
type Action struct {
	Type    ActionType    // 动作类型
	Method  ContactMethod // 联系方式，仅ActionSelectMethod使用
	Phase   CallPhase     // 通话阶段，仅ActionSetCallPhase使用
	Message ChatMessage   // 聊天消息，仅ActionAppendMessage使用
	Draft   string        // 草稿内容，仅ActionUpdateDraft使用
}

// ConnectionPhase 外部语音传输的连接阶段
type ConnectionPhase string

// 定义连接阶段常量
const (
	ConnPhaseConnecting   ConnectionPhase = "connecting"   // 连接中
	ConnPhaseConnected    ConnectionPhase = "connected"    // 已连接
	ConnPhaseDisconnected ConnectionPhase = "disconnected" // 已断开
)
