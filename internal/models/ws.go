package models

import (
	"github.com/gin-gonic/gin"

	"support_widget/internal/types"
)

// WSService WebSocket服务接口
type WSService interface {
	// HandleConnection 处理WebSocket连接
	HandleConnection(c *gin.Context)
}

// ClientMessage 挂件发来的消息
type ClientMessage struct {
	Type   string              `json:"type"`
	Method types.ContactMethod `json:"method,omitempty"` // select_method
	Text   string              `json:"text,omitempty"`   // send_message / update_draft
	Key    string              `json:"key,omitempty"`    // key
	Alt    bool                `json:"alt,omitempty"`    // key
}

// 客户端消息类型
const (
	ClientOpenDialog       = "open_dialog"
	ClientCloseDialog      = "close_dialog"
	ClientSelectMethod     = "select_method"
	ClientSendMessage      = "send_message"
	ClientUpdateDraft      = "update_draft"
	ClientToggleMute       = "toggle_mute"
	ClientToggleTranscript = "toggle_transcript"
	ClientMinimize         = "minimize"
	ClientEndSession       = "end_session"
	ClientKey              = "key"
)

// ServerMessage 推送给挂件的消息
type ServerMessage struct {
	Type    string              `json:"type"`
	State   *types.SessionState `json:"state,omitempty"`
	Levels  *types.AudioLevels  `json:"levels,omitempty"`
	Message string              `json:"message,omitempty"`
}

// 服务端消息类型
const (
	ServerState        = "state"
	ServerAudioLevels  = "audio_levels"
	ServerSessionEnded = "session_ended"
	ServerError        = "error"
)
