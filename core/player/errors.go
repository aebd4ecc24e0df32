package player

import "errors"

var (
	// ErrNotPlaying 表示当前没有可操作的活动会话
	ErrNotPlaying = errors.New("no active playback")

	// ErrProcessControl 表示挂起/恢复信号发送失败，会话状态未改变，可重试
	ErrProcessControl = errors.New("process control failed")

	// ErrSpawnFailed 表示外部播放器启动失败，会话已终止
	ErrSpawnFailed = errors.New("player spawn failed")
)
