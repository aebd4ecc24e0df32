package cache

import (
	"context"
	"fmt"
	"time"

	"OopzAudio/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient 是全局Redis客户端
var RedisClient *redis.Client

// ConnectRedis 初始化Redis连接
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// CloseRedis 关闭Redis连接
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// TestRedis 测试Redis连接和播放状态记录的读写能力
func TestRedis() error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	ctx := context.Background()

	// 两个共享的播放状态键允许缺失，但必须可读
	for _, key := range []string{KeyPlayerStatus, KeyCurrentTrack} {
		if _, err := RedisClient.Get(ctx, key).Result(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
	}

	// 写入能力用带过期的诊断键验证，不触碰播放状态键本身
	diagKey := "music:diag"
	if err := RedisClient.Set(ctx, diagKey, time.Now().Format(time.RFC3339), time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key %s: %w", diagKey, err)
	}
	if _, err := RedisClient.Del(ctx, diagKey).Result(); err != nil {
		return fmt.Errorf("failed to delete Redis key %s: %w", diagKey, err)
	}

	return nil
}
