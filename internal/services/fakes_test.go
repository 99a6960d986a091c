package services

import (
	"sync"

	"support_widget/internal/models"
	"support_widget/internal/types"
)

// fakeTransport 测试用语音传输，记录收到的指令并允许手动触发回调
type fakeTransport struct {
	mu            sync.Mutex
	callbacks     models.VoiceTransportCallbacks
	connectCalls  int
	disconnects   int
	ops           []string
	micCommands   []bool
	connectErr    error
	micCommandErr error
}

func (f *fakeTransport) SetCallbacks(cb models.VoiceTransportCallbacks) {
	f.mu.Lock()
	f.callbacks = cb
	f.mu.Unlock()
}

func (f *fakeTransport) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectCalls++
	f.ops = append(f.ops, "connect")
	return f.connectErr
}

func (f *fakeTransport) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.ops = append(f.ops, "disconnect")
	return nil
}

func (f *fakeTransport) SetMicrophoneEnabled(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.micCommands = append(f.micCommands, enabled)
	return f.micCommandErr
}

func (f *fakeTransport) emitPhase(phase types.ConnectionPhase) {
	f.mu.Lock()
	cb := f.callbacks.OnPhase
	f.mu.Unlock()
	if cb != nil {
		cb(phase)
	}
}

func (f *fakeTransport) emitTrack(present bool) {
	f.mu.Lock()
	cb := f.callbacks.OnTrack
	f.mu.Unlock()
	if cb != nil {
		cb(present)
	}
}

func (f *fakeTransport) emitLevels(user, agent []float64) {
	f.mu.Lock()
	cb := f.callbacks.OnLevels
	f.mu.Unlock()
	if cb != nil {
		cb(user, agent)
	}
}

func (f *fakeTransport) micCommandLog() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.micCommands))
	copy(out, f.micCommands)
	return out
}

func (f *fakeTransport) connectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectCalls
}

func (f *fakeTransport) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnects
}

func (f *fakeTransport) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

// recordingSink 测试用通知接收端，记录收到的全部通知
type recordingSink struct {
	mu         sync.Mutex
	states     []types.SessionState
	levels     []types.AudioLevels
	endedCount int
	errors     []string
}

func (r *recordingSink) StateChanged(state types.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingSink) AudioLevels(levels types.AudioLevels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, levels)
}

func (r *recordingSink) SessionEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endedCount++
}

func (r *recordingSink) TransportError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingSink) lastState() (types.SessionState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return types.SessionState{}, false
	}
	return r.states[len(r.states)-1], true
}

func (r *recordingSink) endedTimes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endedCount
}

func (r *recordingSink) levelCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.levels)
}

func (r *recordingSink) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// fixedResponder 测试用应答服务，返回固定文本
type fixedResponder struct {
	greeting string
	reply    string
}

func (f *fixedResponder) Greeting() string {
	return f.greeting
}

func (f *fixedResponder) Reply(history []types.ChatMessage) string {
	return f.reply
}
