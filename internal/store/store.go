// Package store 实现挂件会话状态机
package store

import (
	"support_widget/internal/types"
)

// Initial 返回初始会话状态
func Initial() types.SessionState {
	return types.SessionState{
		Mode:      types.ModeCollapsed,
		CallPhase: types.PhaseConnecting,
		Messages:  []types.ChatMessage{},
	}
}

// Apply 对当前状态应用一个动作并返回下一个状态。
// 纯函数，无副作用；前置条件不满足的动作按无操作处理，不会报错。
func Apply(state types.SessionState, action types.Action) types.SessionState {
	switch action.Type {
	case types.ActionOpenDialog:
		if state.Mode == types.ModeCollapsed {
			state.Mode = types.ModeChoosingMethod
		}

	case types.ActionCloseDialog:
		state.Mode = types.ModeCollapsed

	case types.ActionSelectMethod:
		if state.Mode != types.ModeChoosingMethod {
			break
		}
		if action.Method == types.MethodVoice {
			state.Mode = types.ModeInVoiceCall
			state.CallPhase = types.PhaseConnecting
		} else if action.Method == types.MethodText {
			state.Mode = types.ModeInTextChat
		}

	case types.ActionSetCallPhase:
		if state.Mode == types.ModeInVoiceCall {
			state.CallPhase = action.Phase
		}

	case types.ActionToggleMute:
		if state.Mode == types.ModeInVoiceCall {
			state.Muted = !state.Muted
		}

	case types.ActionToggleTranscript:
		state.TranscriptVisible = !state.TranscriptVisible

	case types.ActionTickCallDuration:
		if state.Mode == types.ModeInVoiceCall && state.CallPhase == types.PhaseActive {
			state.CallDurationSeconds++
		}

	case types.ActionAppendMessage:
		if state.Mode == types.ModeInTextChat {
			// 复制切片，保持历史状态不被共享底层数组污染
			messages := make([]types.ChatMessage, len(state.Messages), len(state.Messages)+1)
			copy(messages, state.Messages)
			state.Messages = append(messages, action.Message)
		}

	case types.ActionUpdateDraft:
		if state.Mode == types.ModeInTextChat {
			state.PendingInput = action.Draft
		}

	case types.ActionEndSession:
		return Initial()

	case types.ActionMinimize:
		// 与EndSession不同：只收起挂件，保留通话/聊天进度
		state.Mode = types.ModeCollapsed
	}

	return state
}
