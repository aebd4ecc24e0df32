package cmd

import (
	"context"
	"fmt"
	"log"

	"OopzAudio/cache"
	"OopzAudio/config"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并显示当前共享的播放状态记录。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始测试Redis连接...")

		// 加载配置
		cfg := config.Load()
		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		// 连接Redis
		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		fmt.Println("Redis连接成功！")

		// 检查播放状态键与读写能力
		if err := cache.TestRedis(); err != nil {
			log.Fatalf("Redis操作测试失败: %v", err)
		}
		fmt.Println("播放状态键检查通过！")

		// 显示当前共享播放状态
		publisher := cache.NewPublisher(cache.RedisClient)
		track, err := publisher.CurrentTrack(context.Background())
		switch {
		case err != nil:
			fmt.Printf("读取当前曲目失败: %v\n", err)
		case track == nil:
			fmt.Println("当前没有共享的曲目记录")
		default:
			fmt.Printf("当前曲目: %s - %s (uuid: %s)\n", track.Artists, track.Name, track.PlayUUID)
		}

		// 关闭连接
		if err := cache.CloseRedis(); err != nil {
			log.Printf("关闭Redis连接时发生错误: %v", err)
		}
		fmt.Println("Redis测试完成，连接已关闭。")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
