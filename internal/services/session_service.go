package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"support_widget/internal/models"
	"support_widget/internal/store"
	"support_widget/internal/types"
)

// SessionOptions 会话编排参数
type SessionOptions struct {
	TickInterval  time.Duration // 通话计时间隔
	GreetingDelay time.Duration // 进入聊天后发送问候语的延迟
	ReplyDelay    time.Duration // 收到用户消息后回复的延迟
}

// applyDefaults 填充缺省参数
func (o *SessionOptions) applyDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.GreetingDelay <= 0 {
		o.GreetingDelay = time.Second
	}
	if o.ReplyDelay <= 0 {
		o.ReplyDelay = 1500 * time.Millisecond
	}
}

// envelope 进入事件循环的动作信封
type envelope struct {
	action types.Action
	epoch  uint64                               // 非0时校验会话纪元，纪元不符则丢弃
	guard  func(state types.SessionState) bool  // 应用前复查的前置条件
}

// WidgetSession 挂件会话
// 状态变更全部在单一事件循环协程中串行执行：用户操作、定时器和
// 传输回调都以动作信封投递，按到达顺序应用，不存在并发修改。
type WidgetSession struct {
	id        string
	opts      SessionOptions
	responder models.ChatResponder
	sink      models.SessionSink
	bridge    *VoiceBridge

	actions     chan envelope
	connIntents chan bool
	done        chan struct{}
	closed      sync.Once

	mu    sync.RWMutex
	state types.SessionState // 事件循环写入，Snapshot读取

	// 以下字段仅事件循环协程访问
	epoch  uint64
	ticker *time.Ticker
	tickC  <-chan time.Time
}

// NewWidgetSession 创建新的挂件会话并启动事件循环
func NewWidgetSession(
	id string,
	transport models.VoiceTransport,
	responder models.ChatResponder,
	sink models.SessionSink,
	opts SessionOptions,
) *WidgetSession {
	opts.applyDefaults()

	s := &WidgetSession{
		id:          id,
		opts:        opts,
		responder:   responder,
		sink:        sink,
		actions:     make(chan envelope, 64),
		connIntents: make(chan bool, 8),
		done:        make(chan struct{}),
		state:       store.Initial(),
		epoch:       1,
	}

	s.bridge = NewVoiceBridge(transport, s.handleCallPhase, s.handleAudioLevels, s.handleTransportError)

	go s.run()
	go s.connectWorker()
	return s
}

// ID 返回会话标识
func (s *WidgetSession) ID() string {
	return s.id
}

// Snapshot 返回当前状态的副本
func (s *WidgetSession) Snapshot() types.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	messages := make([]types.ChatMessage, len(state.Messages))
	copy(messages, state.Messages)
	state.Messages = messages
	return state
}

// Close 终止事件循环并断开语音连接，重复调用无效果
func (s *WidgetSession) Close() {
	s.closed.Do(func() {
		close(s.done)
		if err := s.bridge.RequestConnect(false); err != nil {
			log.Printf("会话 %s 断开语音连接失败: %v", s.id, err)
		}
	})
}

// OpenDialog 打开联系方式选择框
func (s *WidgetSession) OpenDialog() {
	s.post(envelope{action: types.Action{Type: types.ActionOpenDialog}})
}

// CloseDialog 关闭联系方式选择框
func (s *WidgetSession) CloseDialog() {
	s.post(envelope{action: types.Action{Type: types.ActionCloseDialog}})
}

// SelectMethod 选择联系方式
func (s *WidgetSession) SelectMethod(method types.ContactMethod) {
	s.post(envelope{action: types.Action{Type: types.ActionSelectMethod, Method: method}})
}

// SendMessage 发送聊天消息，空白内容在分发前被拒绝
func (s *WidgetSession) SendMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.post(envelope{action: types.Action{
		Type:    types.ActionAppendMessage,
		Message: newChatMessage(types.SenderUser, text),
	}})
}

// UpdateDraft 更新未发送的草稿
func (s *WidgetSession) UpdateDraft(text string) {
	s.post(envelope{action: types.Action{Type: types.ActionUpdateDraft, Draft: text}})
}

// ToggleMute 切换本地静音
func (s *WidgetSession) ToggleMute() {
	s.post(envelope{action: types.Action{Type: types.ActionToggleMute}})
}

// ToggleTranscript 切换转写显示
func (s *WidgetSession) ToggleTranscript() {
	s.post(envelope{action: types.Action{Type: types.ActionToggleTranscript}})
}

// Minimize 最小化挂件，保留通话/聊天进度
func (s *WidgetSession) Minimize() {
	s.post(envelope{action: types.Action{Type: types.ActionMinimize}})
}

// EndSession 结束会话并完全重置状态
func (s *WidgetSession) EndSession() {
	s.post(envelope{action: types.Action{Type: types.ActionEndSession}})
}

// HandleKey 处理通话中的键盘快捷键：Alt+M切换静音，Escape最小化
func (s *WidgetSession) HandleKey(key string, alt bool) {
	inVoiceCall := func(st types.SessionState) bool {
		return st.Mode == types.ModeInVoiceCall
	}
	switch {
	case alt && strings.EqualFold(key, "m"):
		s.post(envelope{action: types.Action{Type: types.ActionToggleMute}, guard: inVoiceCall})
	case key == "Escape":
		s.post(envelope{action: types.Action{Type: types.ActionMinimize}, guard: inVoiceCall})
	}
}

// handleCallPhase 桥接映射结果进入状态机
func (s *WidgetSession) handleCallPhase(phase types.CallPhase) {
	s.post(envelope{
		action: types.Action{Type: types.ActionSetCallPhase, Phase: phase},
		guard: func(st types.SessionState) bool {
			return st.Mode == types.ModeInVoiceCall
		},
	})
}

// handleAudioLevels 音量仅用于渲染，不进状态机，直接转发
func (s *WidgetSession) handleAudioLevels(levels types.AudioLevels) {
	s.sink.AudioLevels(levels)
}

// handleTransportError 传输错误以可关闭通知的形式转发，不改变挂件模式
func (s *WidgetSession) handleTransportError(message string) {
	s.sink.TransportError(message)
}

// post 投递动作信封，会话已关闭时丢弃
func (s *WidgetSession) post(env envelope) {
	select {
	case s.actions <- env:
	case <-s.done:
	}
}

// postConnectIntent 投递连接意图，由单一工作协程按序执行
func (s *WidgetSession) postConnectIntent(connect bool) {
	select {
	case s.connIntents <- connect:
	case <-s.done:
	}
}

// connectWorker 按到达顺序执行连接/断开意图
// 单协程串行执行，结束会话的挂断不会与下一次通话的拨号乱序。
func (s *WidgetSession) connectWorker() {
	for {
		select {
		case <-s.done:
			return
		case connect := <-s.connIntents:
			if err := s.bridge.RequestConnect(connect); err != nil {
				if connect {
					log.Printf("会话 %s 发起语音连接失败: %v", s.id, err)
					s.sink.TransportError("语音连接失败，请重试")
				} else {
					log.Printf("会话 %s 断开语音连接失败: %v", s.id, err)
				}
				continue
			}
			if connect {
				// 传输已在线时补发存量信号，重开挂件恢复通话阶段
				s.bridge.Emit()
			}
		}
	}
}

// run 会话事件循环
func (s *WidgetSession) run() {
	defer s.stopTicker()
	for {
		select {
		case <-s.done:
			return
		case env := <-s.actions:
			s.apply(env)
		case <-s.tickC:
			s.apply(envelope{action: types.Action{Type: types.ActionTickCallDuration}})
		}
	}
}

// apply 应用单个动作并执行随附的副作用
func (s *WidgetSession) apply(env envelope) {
	if env.epoch != 0 && env.epoch != s.epoch {
		return // 上个会话纪元遗留的延迟任务
	}
	if env.guard != nil && !env.guard(s.state) {
		return // 前置条件已不成立
	}

	prev := s.state
	next := store.Apply(prev, env.action)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.afterApply(prev, next, env.action)
}

// afterApply 观察状态转移并执行副作用，纯状态变更与副作用在此分界
func (s *WidgetSession) afterApply(prev, next types.SessionState, action types.Action) {
	if action.Type == types.ActionEndSession {
		// 纪元递增使所有未触发的延迟任务失效
		s.epoch++
		s.stopTicker()
		s.postConnectIntent(false)
		s.sink.SessionEnded()
		s.sink.StateChanged(next)
		return
	}

	// 进入语音通话时发起连接，连接过程不阻塞事件循环
	if action.Type == types.ActionSelectMethod && prev.Mode != types.ModeInVoiceCall && next.Mode == types.ModeInVoiceCall {
		s.postConnectIntent(true)
	}

	// 静音意图变化时传播麦克风指令
	if next.Muted != prev.Muted {
		s.bridge.SetMuted(next.Muted)
	}

	// 通话计时器按(模式,阶段)组合幂等启停
	s.syncTicker(next)

	// 首次进入空聊天时安排一条问候语
	if action.Type == types.ActionSelectMethod && next.Mode == types.ModeInTextChat && len(next.Messages) == 0 {
		s.schedule(s.opts.GreetingDelay,
			func() types.Action {
				return types.Action{
					Type:    types.ActionAppendMessage,
					Message: newChatMessage(types.SenderAgent, s.responder.Greeting()),
				}
			},
			func(st types.SessionState) bool {
				return st.Mode == types.ModeInTextChat && len(st.Messages) == 0
			})
	}

	// 每条用户消息各自安排一条独立回复，不做合并去重
	if action.Type == types.ActionAppendMessage && action.Message.Sender == types.SenderUser && next.Mode == types.ModeInTextChat {
		history := next.Messages
		s.schedule(s.opts.ReplyDelay,
			func() types.Action {
				return types.Action{
					Type:    types.ActionAppendMessage,
					Message: newChatMessage(types.SenderAgent, s.responder.Reply(history)),
				}
			},
			func(st types.SessionState) bool {
				return st.Mode == types.ModeInTextChat
			})
	}

	s.sink.StateChanged(next)
}

// syncTicker 按(模式,阶段)组合启停通话计时器
// 重复进入active不会产生并行计时器，离开组合立即停止
func (s *WidgetSession) syncTicker(state types.SessionState) {
	active := state.Mode == types.ModeInVoiceCall && state.CallPhase == types.PhaseActive
	if active && s.ticker == nil {
		s.ticker = time.NewTicker(s.opts.TickInterval)
		s.tickC = s.ticker.C
	}
	if !active && s.ticker != nil {
		s.stopTicker()
	}
}

// stopTicker 停止通话计时器
func (s *WidgetSession) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
		s.tickC = nil
	}
}

// schedule 安排一个绑定当前纪元的延迟动作，动作内容在触发时构造
func (s *WidgetSession) schedule(delay time.Duration, build func() types.Action, guard func(types.SessionState) bool) {
	epoch := s.epoch
	time.AfterFunc(delay, func() {
		s.post(envelope{action: build(), epoch: epoch, guard: guard})
	})
}

// newChatMessage 生成带ID和时间戳的聊天消息
func newChatMessage(sender types.Sender, body string) types.ChatMessage {
	return types.ChatMessage{
		ID:     uuid.NewString(),
		Sender: sender,
		Body:   body,
		SentAt: time.Now(),
	}
}
