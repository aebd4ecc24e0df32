package cmd

import (
	"OopzAudio/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动播放控制服务器",
	Long:  `启动音频播放控制服务的HTTP服务器，提供播放/暂停/跳转/进度查询API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
