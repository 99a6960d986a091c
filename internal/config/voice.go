package config

// VoiceConfig 语音传输连接配置
type VoiceConfig struct {
	ServerURL         string `yaml:"server_url"`         // 语音传输服务器地址
	HandshakeTimeout  int    `yaml:"handshake_timeout"`  // 握手超时时间(秒)
	ReconnectInterval int    `yaml:"reconnect_interval"` // 重连间隔(秒)
	MaxRetries        int    `yaml:"max_retries"`        // 最大重试次数
}

// applyDefaults 填充缺省配置
func (c *VoiceConfig) applyDefaults() {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 5
	}
	if c.ReconnectInterval == 0 {
		c.ReconnectInterval = 5
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

// Validate 验证语音传输配置
func (c *VoiceConfig) Validate() error {
	if c.ServerURL == "" {
		return ErrEmptyVoiceURL
	}
	if c.MaxRetries < 0 {
		return ErrBadMaxRetries
	}
	return nil
}
