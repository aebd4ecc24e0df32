package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OopzAudio/cache"
	"OopzAudio/config"
	"OopzAudio/core/fetch"
	"OopzAudio/core/player"
	"OopzAudio/core/proc"
	"OopzAudio/logger"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.CloseRedis()
	log.Println("Successfully connected to Redis")

	publisher := cache.NewPublisher(cache.RedisClient)

	// 清理上次运行残留的播放状态，防止旧数据误导外部组件
	resetCtx, cancelReset := context.WithTimeout(context.Background(), 5*time.Second)
	if err := publisher.ResetPlaybackState(resetCtx); err != nil {
		logger.Warn("failed to reset stale playback state", logger.ErrorField(err))
	}
	cancelReset()

	supervisor := proc.NewSupervisor(cfg.FFplayPath, cfg.FFprobePath)
	downloader := fetch.NewDownloader(cfg.DownloadDir, cfg.DownloadUserAgent, cfg.DownloadReferer)
	controller := player.NewController(supervisor, downloader, publisher, cfg.TerminateGrace, cfg.CleanupDelay)

	// 初始化处理器
	playerHandler := NewPlayerHandler(controller)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// 播放控制API端点
	router.HandleFunc("/play", playerHandler.PlayHandler).Methods(http.MethodGet)
	router.HandleFunc("/stop", playerHandler.StopHandler).Methods(http.MethodGet)
	router.HandleFunc("/pause", playerHandler.PauseHandler).Methods(http.MethodGet)
	router.HandleFunc("/resume", playerHandler.ResumeHandler).Methods(http.MethodGet)
	router.HandleFunc("/seek", playerHandler.SeekHandler).Methods(http.MethodGet)
	router.HandleFunc("/status", playerHandler.StatusHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", playerHandler.HealthHandler).Methods(http.MethodGet)

	// WebSocket 状态推送
	router.HandleFunc("/ws/status", playerHandler.StatusStreamHandler)

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		log.Printf("AudioService starting on :%s...", cfg.ServerPort)
		log.Println("Control playback via /play /stop /pause /resume /seek")
		log.Println("Query progress via /status, push channel at /ws/status")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号
	<-stop
	log.Println("Shutting down server...")

	// 退出前停掉外部播放进程并发布空闲快照
	controller.Stop(context.Background())

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
