package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the playback service configuration.
type Config struct {
	ServerPort string

	// 外部播放器/探测器
	FFplayPath  string
	FFprobePath string

	// 下载配置
	DownloadDir       string // 临时音频文件目录，为空时使用系统临时目录
	DownloadUserAgent string
	DownloadReferer   string

	// 进程终止与清理
	TerminateGrace time.Duration // 优雅终止等待时长，超时后强制 kill
	CleanupDelay   time.Duration // 进程退出后延迟删除临时文件的时长

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// 日志配置
	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5000"),

		FFplayPath:  getEnv("FFPLAY_PATH", "ffplay"),
		FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),

		DownloadDir: getEnv("DOWNLOAD_DIR", ""),
		DownloadUserAgent: getEnv("DOWNLOAD_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/140.0.0.0 Safari/537.36"),
		DownloadReferer: getEnv("DOWNLOAD_REFERER", "https://music.163.com/"),

		TerminateGrace: time.Duration(getEnvInt("TERMINATE_GRACE_SECONDS", 5)) * time.Second,
		CleanupDelay:   time.Duration(getEnvInt("CLEANUP_DELAY_MS", 500)) * time.Millisecond,

		// Redis配置，使用默认值
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""), // 默认无密码
		RedisDB:       getEnvInt("REDIS_DB", 0),     // 默认使用0号数据库

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
