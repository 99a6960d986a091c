package services

import (
	"fmt"
	"log"
	"sync"

	"support_widget/internal/models"
	"support_widget/internal/types"
)

// VoiceBridge 语音桥接服务
// 将外部语音传输的连接阶段、远端音轨和音量信号翻译为挂件的通话词汇，
// 并把用户的连接/静音意图转发给传输层。
type VoiceBridge struct {
	transport models.VoiceTransport

	onPhase  func(phase types.CallPhase)
	onLevels func(levels types.AudioLevels)
	onError  func(message string)

	mu           sync.Mutex
	connPhase    types.ConnectionPhase
	trackPresent bool
	micEnabled   bool // 本次连接是否已下发过一次性麦克风指令
	muted        bool
}

// NewVoiceBridge 创建新的语音桥接实例并注册传输回调
func NewVoiceBridge(
	transport models.VoiceTransport,
	onPhase func(phase types.CallPhase),
	onLevels func(levels types.AudioLevels),
	onError func(message string),
) *VoiceBridge {
	b := &VoiceBridge{
		transport: transport,
		onPhase:   onPhase,
		onLevels:  onLevels,
		onError:   onError,
		connPhase: types.ConnPhaseConnecting,
	}

	transport.SetCallbacks(models.VoiceTransportCallbacks{
		OnPhase:  b.handlePhase,
		OnTrack:  b.handleTrack,
		OnLevels: b.handleLevels,
		OnError:  b.handleError,
	})

	return b
}

// RequestConnect 发起或断开语音连接
// 连接仍然在线时不回退阶段，既有通话经Emit恢复。
func (b *VoiceBridge) RequestConnect(connect bool) error {
	if connect {
		b.mu.Lock()
		if b.connPhase != types.ConnPhaseConnected {
			b.connPhase = types.ConnPhaseConnecting
		}
		b.mu.Unlock()
		return b.transport.Connect()
	}
	return b.transport.Disconnect()
}

// Emit 按存量的连接阶段和音轨状态重新发布一次通话阶段
// 桥接平时只在上游信号变化时发布，重新进入通话界面时用它补发。
func (b *VoiceBridge) Emit() {
	b.evaluate()
}

// SetMuted 传播静音意图
// 未连接时本地尚无音轨，只记录意图不下发指令；已连接时每次切换下发一条指令。
func (b *VoiceBridge) SetMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	connected := b.connPhase == types.ConnPhaseConnected
	b.mu.Unlock()

	if !connected {
		return
	}
	if err := b.transport.SetMicrophoneEnabled(!muted); err != nil {
		log.Printf("下发麦克风指令失败: %v", err)
		b.emitError(fmt.Sprintf("麦克风控制失败: %v", err))
	}
}

// handlePhase 处理连接阶段变化
func (b *VoiceBridge) handlePhase(phase types.ConnectionPhase) {
	b.mu.Lock()
	b.connPhase = phase
	if phase == types.ConnPhaseDisconnected {
		// 连接断开后音轨消失，一次性开麦标志复位
		b.trackPresent = false
		b.micEnabled = false
	}
	enableMic := phase == types.ConnPhaseConnected && !b.micEnabled
	if enableMic {
		b.micEnabled = true
	}
	muted := b.muted
	b.mu.Unlock()

	// 连接建立后下发一次麦克风指令，连接期间记录的静音意图在此兑现
	if enableMic {
		if err := b.transport.SetMicrophoneEnabled(!muted); err != nil {
			log.Printf("开启麦克风失败: %v", err)
			b.emitError(fmt.Sprintf("麦克风控制失败: %v", err))
		}
	}

	b.evaluate()
}

// handleTrack 处理远端音轨存在性变化
func (b *VoiceBridge) handleTrack(present bool) {
	b.mu.Lock()
	b.trackPresent = present
	b.mu.Unlock()
	b.evaluate()
}

// handleLevels 将双轨音量打包为一个AudioLevels值转发
func (b *VoiceBridge) handleLevels(user, agent []float64) {
	if b.onLevels != nil {
		b.onLevels(types.AudioLevels{User: user, Agent: agent})
	}
}

// handleError 转发传输错误
func (b *VoiceBridge) handleError(err error) {
	log.Printf("语音传输错误: %v", err)
	b.emitError(err.Error())
}

// evaluate 按映射规则重新计算通话阶段，每次上游信号变化都重新求值：
//   - connecting                → connecting
//   - connected 且远端音轨存在  → active
//   - connected 但远端音轨未就绪 → 保持connecting，不提前进入active
//   - disconnected              → ended
func (b *VoiceBridge) evaluate() {
	b.mu.Lock()
	var phase types.CallPhase
	switch b.connPhase {
	case types.ConnPhaseConnected:
		if b.trackPresent {
			phase = types.PhaseActive
		} else {
			phase = types.PhaseConnecting
		}
	case types.ConnPhaseDisconnected:
		phase = types.PhaseEnded
	default:
		phase = types.PhaseConnecting
	}
	b.mu.Unlock()

	if b.onPhase != nil {
		b.onPhase(phase)
	}
}

// emitError 转发错误通知
func (b *VoiceBridge) emitError(message string) {
	if b.onError != nil {
		b.onError(message)
	}
}
