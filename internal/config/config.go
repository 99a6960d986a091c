// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var globalConfig *Config

// Config 应用程序配置结构
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Voice     VoiceConfig     `yaml:"voice"`
	Chat      ChatConfig      `yaml:"chat"`
	Session   SessionConfig   `yaml:"session"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Host string `yaml:"host"` // 服务器监听地址
	Port int    `yaml:"port"` // 服务器监听端口
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`  // 读缓冲区大小
	WriteBufferSize int `yaml:"write_buffer_size"` // 写缓冲区大小
	PingPeriod      int `yaml:"ping_period"`       // 心跳间隔(秒)
	PongWait        int `yaml:"pong_wait"`         // 等待Pong响应的超时时间(秒)
}

// SessionConfig 会话管理配置
type SessionConfig struct {
	TickInterval    int `yaml:"tick_interval"`    // 通话计时间隔(秒)
	IdleTTL         int `yaml:"idle_ttl"`         // 空闲会话过期时间(秒)
	CleanupInterval int `yaml:"cleanup_interval"` // 过期会话清理间隔(秒)
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"` // 允许嵌入挂件的站点
}

// GetConfig 获取全局配置实例
func GetConfig() *Config {
	return globalConfig
}

// Load 从文件加载配置
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	// 设置默认值
	config.applyDefaults()

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %v", err)
	}

	// 设置全局配置
	globalConfig = &config

	return &config, nil
}

// applyDefaults 填充缺省配置
func (c *Config) applyDefaults() {
	if c.WebSocket.ReadBufferSize == 0 {
		c.WebSocket.ReadBufferSize = 1024
	}
	if c.WebSocket.WriteBufferSize == 0 {
		c.WebSocket.WriteBufferSize = 1024
	}
	if c.WebSocket.PingPeriod == 0 {
		c.WebSocket.PingPeriod = 30
	}
	if c.WebSocket.PongWait == 0 {
		c.WebSocket.PongWait = 60
	}

	if c.Session.TickInterval == 0 {
		c.Session.TickInterval = 1
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 600
	}
	if c.Session.CleanupInterval == 0 {
		c.Session.CleanupInterval = 60
	}

	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}

	c.Voice.applyDefaults()
	c.Chat.applyDefaults()
}

// validateConfig 验证配置是否有效
func validateConfig(config *Config) error {
	// 验证服务器配置
	if config.Server.Host == "" {
		return fmt.Errorf("服务器地址不能为空")
	}
	if config.Server.Port <= 0 {
		return fmt.Errorf("服务器端口必须大于0")
	}

	// 验证语音传输配置
	if err := config.Voice.Validate(); err != nil {
		return err
	}

	// 验证聊天配置
	if err := config.Chat.Validate(); err != nil {
		return err
	}

	return nil
}
