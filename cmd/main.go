package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"support_widget/internal/clients/voice"
	"support_widget/internal/config"
	"support_widget/internal/middleware"
	"support_widget/internal/models"
	"support_widget/internal/routes"
	"support_widget/internal/services"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("客服挂件服务启动中...")

	// 加载环境变量，文件不存在时忽略
	if err := godotenv.Load(); err != nil {
		log.Println("未找到.env文件，使用系统环境变量")
	}

	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 聊天回复服务
	responder := services.NewResponderService(cfg.Chat)

	// 语音传输工厂，每个会话一条独立连接
	factory := models.VoiceTransportFactory(func(sessionID string) models.VoiceTransport {
		return voice.NewWSClient(voice.Config{
			ServerURL:         cfg.Voice.ServerURL,
			SessionID:         sessionID,
			HandshakeTimeout:  time.Duration(cfg.Voice.HandshakeTimeout) * time.Second,
			ReconnectInterval: time.Duration(cfg.Voice.ReconnectInterval) * time.Second,
			MaxRetries:        cfg.Voice.MaxRetries,
		})
	})

	// 会话注册表
	manager := services.NewSessionManager(
		factory,
		responder,
		services.SessionOptions{
			TickInterval:  time.Duration(cfg.Session.TickInterval) * time.Second,
			GreetingDelay: cfg.Chat.GreetingDelay(),
			ReplyDelay:    cfg.Chat.ReplyDelay(),
		},
		time.Duration(cfg.Session.IdleTTL)*time.Second,
		time.Duration(cfg.Session.CleanupInterval)*time.Second,
	)

	// WebSocket服务
	wsService := services.NewWSService(manager, cfg.WebSocket)

	// 初始化HTTP服务
	r := gin.New()
	middleware.Setup(r, cfg)
	routes.RegisterRoutes(r, wsService, manager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("服务监听地址: %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}
