package player

import (
	"context"
	"time"

	"OopzAudio/model"
)

// Process 是一个已启动的外部播放进程句柄。
type Process interface {
	// Wait 阻塞直到进程退出，可被多个调用方同时等待
	Wait()
	// Alive 报告进程是否仍在运行
	Alive() bool
	// Suspend 在操作系统调度层面挂起进程
	Suspend() error
	// Resume 恢复被挂起的进程
	Resume() error
	// Terminate 请求优雅退出，超过 grace 后强制终止
	Terminate(grace time.Duration)
}

// Spawner 启动外部播放器并探测音频时长。
type Spawner interface {
	// Spawn 从 offsetSeconds 秒处开始播放本地文件
	Spawn(localPath string, offsetSeconds float64) (Process, error)
	// Probe 返回音频时长（秒）。探测失败时 ok 为 false，时长视为未知
	Probe(localPath string) (durationSeconds float64, ok bool)
}

// Fetcher 将远程音频取回为本地临时文件，返回文件路径。
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string) (string, error)
}

// StatePublisher 将播放状态镜像到共享存储，只写不读回会话事实。
type StatePublisher interface {
	PublishPlayerStatus(ctx context.Context, playing bool, playUUID string) error
	CurrentTrack(ctx context.Context) (*model.CurrentTrack, error)
	ClearCurrentTrack(ctx context.Context, playUUID string) error
}
