package player

import "time"

// session 持有一次连续播放尝试的全部状态与资源，由 Controller 的互斥锁保护。
//
// localPath 指向会话独占的临时文件，会话自然结束或被显式停止时释放；
// seek 重启进程时复用同一文件，不释放。
//
// generation 在每次为该会话启动新进程时递增（首次播放、每次 seek 重启）。
// 观察者协程以它判断自己是否已被取代：代数不再匹配的退出事件不做任何清理。
type session struct {
	playUUID  string
	sourceURL string
	localPath string

	// 时长（秒），0 表示未知，此时位置上限开放
	duration float64

	// 进度簿记：仅凭这些字段即可在任意时刻算出播放位置，无需轮询外部进程
	startTime   time.Time
	seekOffset  float64
	paused      bool
	pausedAt    time.Time // 仅在 paused 为 true 时有意义
	totalPaused time.Duration

	generation uint64
	proc       Process
}
