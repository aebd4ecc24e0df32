package player

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"OopzAudio/logger"
	"OopzAudio/model"

	"github.com/google/uuid"
)

// Controller 是播放控制的唯一入口，串行化全部控制操作。
//
// 互斥锁只保护内存簿记（会话身份、时间戳、暂停标志、进程引用），
// 从不跨越阻塞调用（下载、进程启动/终止）持有，因此 status 查询
// 永远不会被一次长时间下载挡住。
type Controller struct {
	mu   sync.Mutex
	sess *session

	spawner Spawner
	fetcher Fetcher
	pub     StatePublisher

	terminateGrace time.Duration
	cleanupDelay   time.Duration
}

// NewController 创建播放控制器。实例之间完全独立，便于测试。
func NewController(spawner Spawner, fetcher Fetcher, pub StatePublisher, terminateGrace, cleanupDelay time.Duration) *Controller {
	return &Controller{
		spawner:        spawner,
		fetcher:        fetcher,
		pub:            pub,
		terminateGrace: terminateGrace,
		cleanupDelay:   cleanupDelay,
	}
}

// Play 开始播放一个远程音频。若已有会话，先同步停止并清理（任何时刻
// 最多一个活动会话）。下载与进程启动在后台任务中进行，返回仅表示
// 请求已受理，不保证音频已经响起。playUUID 为空时生成一个新的。
func (c *Controller) Play(ctx context.Context, sourceURL, playUUID string) model.PlayResult {
	if playUUID == "" {
		playUUID = uuid.NewString()
	}

	// 旧会话的 current 记录不在这里清理：新曲目的元数据可能已被上游写入
	c.stopCurrent(ctx, false)

	sess := &session{playUUID: playUUID, sourceURL: sourceURL}
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()

	if err := c.pub.PublishPlayerStatus(ctx, true, playUUID); err != nil {
		logger.Warn("publish player status failed", logger.ErrorField(err))
	}

	logger.Info("playback accepted",
		logger.String("playUuid", playUUID),
		logger.String("url", truncate(sourceURL, 80)))

	go c.downloadAndPlay(sess)

	return model.PlayResult{Status: true, Message: "播放已开始", PlayUUID: playUUID}
}

// downloadAndPlay 在后台完成取回、探测与启动。任何致命失败都会发布
// 空闲快照，不留下孤儿临时文件。
func (c *Controller) downloadAndPlay(sess *session) {
	ctx := context.Background()

	localPath, err := c.fetcher.Fetch(ctx, sess.sourceURL)
	if err != nil {
		logger.Error("download failed",
			logger.String("playUuid", sess.playUUID),
			logger.ErrorField(err))
		c.abortSession(ctx, sess, "")
		return
	}

	// 下载期间会话可能已被新的 play/stop 取代
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		os.Remove(localPath)
		return
	}
	sess.localPath = localPath
	c.mu.Unlock()

	// 探测失败非致命，时长按未知处理
	duration, ok := c.spawner.Probe(localPath)
	if !ok {
		logger.Warn("duration probe failed, duration unknown", logger.String("path", localPath))
		duration = 0
	}

	proc, err := c.spawner.Spawn(localPath, 0)
	if err != nil {
		logger.Error("player spawn failed",
			logger.String("playUuid", sess.playUUID),
			logger.ErrorField(err))
		c.abortSession(ctx, sess, localPath)
		return
	}

	c.mu.Lock()
	if c.sess != sess {
		// 启动期间被取代，立即收回刚启动的进程
		c.mu.Unlock()
		proc.Terminate(c.terminateGrace)
		go c.removeAfterDelay(localPath)
		return
	}
	sess.proc = proc
	sess.generation++
	gen := sess.generation
	sess.startTime = time.Now()
	sess.seekOffset = 0
	sess.paused = false
	sess.pausedAt = time.Time{}
	sess.totalPaused = 0
	sess.duration = duration
	c.mu.Unlock()

	logger.Info("playback started",
		logger.String("playUuid", sess.playUUID),
		logger.Float64("duration", duration))

	go c.watch(sess, proc, gen)
}

// watch 阻塞等待进程退出。只有代数仍与会话当前代数一致的观察者才被
// 允许清理状态并删除临时文件；被 seek/stop 取代的观察者静默退出，
// 新进程仍在使用同一个文件。
func (c *Controller) watch(sess *session, proc Process, generation uint64) {
	proc.Wait()

	c.mu.Lock()
	if c.sess != sess || sess.generation != generation {
		c.mu.Unlock()
		return
	}
	localPath := sess.localPath
	playUUID := sess.playUUID
	c.sess = nil
	c.mu.Unlock()

	logger.Info("playback finished", logger.String("playUuid", playUUID))

	ctx := context.Background()
	if err := c.pub.PublishPlayerStatus(ctx, false, ""); err != nil {
		logger.Warn("publish idle status failed", logger.ErrorField(err))
	}
	if err := c.pub.ClearCurrentTrack(ctx, playUUID); err != nil {
		logger.Warn("clear current track failed", logger.ErrorField(err))
	}

	c.removeAfterDelay(localPath)
}

// Stop 停止播放。没有活动会话时也返回成功，幂等。
func (c *Controller) Stop(ctx context.Context) model.StopResult {
	if c.stopCurrent(ctx, true) {
		return model.StopResult{Status: true, Message: "已停止", Playing: false}
	}
	return model.StopResult{Status: true, Message: "当前没有播放内容", Playing: false}
}

// stopCurrent 同步终止当前会话并发布空闲快照，返回是否确有会话被停止。
// clearCurrent 控制是否同时清理共享存储中的曲目记录。
func (c *Controller) stopCurrent(ctx context.Context, clearCurrent bool) bool {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	var proc Process
	var localPath, playUUID string
	if sess != nil {
		// 作废在途的观察者与下载任务
		sess.generation++
		proc = sess.proc
		localPath = sess.localPath
		playUUID = sess.playUUID
	}
	c.mu.Unlock()

	if proc != nil {
		proc.Terminate(c.terminateGrace)
		logger.Info("playback stopped", logger.String("playUuid", playUUID))
	}

	if err := c.pub.PublishPlayerStatus(ctx, false, ""); err != nil {
		logger.Warn("publish idle status failed", logger.ErrorField(err))
	}
	if clearCurrent {
		if err := c.pub.ClearCurrentTrack(ctx, playUUID); err != nil {
			logger.Warn("clear current track failed", logger.ErrorField(err))
		}
	}
	if localPath != "" {
		go c.removeAfterDelay(localPath)
	}

	return sess != nil
}

// Pause 在操作系统调度层面挂起外部进程。已暂停时幂等成功。
func (c *Controller) Pause(ctx context.Context) (model.PauseResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.sess
	if sess == nil || sess.proc == nil || !sess.proc.Alive() {
		return model.PauseResult{Message: "没有正在播放的内容"}, ErrNotPlaying
	}
	if sess.paused {
		return model.PauseResult{Status: true, Message: "已经是暂停状态", Paused: true}, nil
	}

	// 进程可能在存活检查与信号之间退出，报告为失败而非崩溃
	if err := sess.proc.Suspend(); err != nil {
		logger.Error("suspend failed",
			logger.String("playUuid", sess.playUUID),
			logger.ErrorField(err))
		return model.PauseResult{Message: fmt.Sprintf("暂停失败: %v", err)},
			fmt.Errorf("%w: %v", ErrProcessControl, err)
	}

	sess.paused = true
	sess.pausedAt = time.Now()
	logger.Info("playback paused", logger.String("playUuid", sess.playUUID))
	return model.PauseResult{Status: true, Message: "已暂停", Paused: true}, nil
}

// Resume 恢复被挂起的进程，把本次暂停时长累计进簿记。未暂停时幂等成功。
func (c *Controller) Resume(ctx context.Context) (model.PauseResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.sess
	if sess == nil || sess.proc == nil || !sess.proc.Alive() {
		return model.PauseResult{Message: "没有正在播放的内容"}, ErrNotPlaying
	}
	if !sess.paused {
		return model.PauseResult{Status: true, Message: "已经在播放中", Paused: false}, nil
	}

	if err := sess.proc.Resume(); err != nil {
		logger.Error("resume failed",
			logger.String("playUuid", sess.playUUID),
			logger.ErrorField(err))
		return model.PauseResult{Message: fmt.Sprintf("恢复失败: %v", err)},
			fmt.Errorf("%w: %v", ErrProcessControl, err)
	}

	sess.totalPaused += time.Since(sess.pausedAt)
	sess.paused = false
	sess.pausedAt = time.Time{}
	logger.Info("playback resumed", logger.String("playUuid", sess.playUUID))
	return model.PauseResult{Status: true, Message: "已恢复", Paused: false}, nil
}

// Seek 通过重启进程跳转到目标位置（秒），对调用方表现为一次阻塞到
// 重启完成的操作。目标被钳制到 [0, duration]，时长未知时只保证非负。
func (c *Controller) Seek(ctx context.Context, target float64) (model.SeekResult, error) {
	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.proc == nil || sess.localPath == "" {
		c.mu.Unlock()
		return model.SeekResult{Message: "没有正在播放的内容"}, ErrNotPlaying
	}
	if _, err := os.Stat(sess.localPath); err != nil {
		c.mu.Unlock()
		return model.SeekResult{Message: "音频文件不存在"}, ErrNotPlaying
	}
	proc := sess.proc
	localPath := sess.localPath
	duration := sess.duration
	wasPaused := sess.paused
	// 先递增代数再终止：旧观察者在进程退出后发现代数不匹配，静默退出，
	// 不会把仍被新进程使用的会话与临时文件清理掉
	sess.generation++
	gen := sess.generation
	c.mu.Unlock()

	target = clampPosition(target, duration)

	// 直接终止被挂起的进程不安全，先恢复
	if wasPaused {
		if err := proc.Resume(); err != nil {
			logger.Warn("resume before seek failed", logger.ErrorField(err))
		}
	}
	proc.Terminate(c.terminateGrace)

	newProc, err := c.spawner.Spawn(localPath, target)
	if err != nil {
		logger.Error("player respawn failed",
			logger.String("playUuid", sess.playUUID),
			logger.ErrorField(err))
		c.abortSession(ctx, sess, localPath)
		return model.SeekResult{Message: "跳转失败"},
			fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	c.mu.Lock()
	if c.sess != sess || sess.generation != gen {
		// 终止与重启之间被新的 play/stop/seek 取代，收回刚启动的进程
		c.mu.Unlock()
		newProc.Terminate(c.terminateGrace)
		return model.SeekResult{Message: "没有正在播放的内容"}, ErrNotPlaying
	}
	sess.proc = newProc
	sess.startTime = time.Now()
	sess.seekOffset = target
	sess.paused = false
	sess.pausedAt = time.Time{}
	sess.totalPaused = 0
	c.mu.Unlock()

	go c.watch(sess, newProc, gen)

	logger.Info("seek completed",
		logger.String("playUuid", sess.playUUID),
		logger.Float64("position", target))
	return model.SeekResult{
		Status:   true,
		Message:  fmt.Sprintf("已跳转到 %.1fs", target),
		Position: target,
	}, nil
}

// Status 返回当前播放快照。只读、可任意频率并发调用；位置由进度簿记
// 即时计算。顺带尽力重发状态记录，使先前失败的发布在下一次查询自愈。
func (c *Controller) Status(ctx context.Context) model.PlayerSnapshot {
	c.mu.Lock()
	var snap model.PlayerSnapshot
	var active bool
	if sess := c.sess; sess != nil {
		alive := sess.proc != nil && sess.proc.Alive()
		// 下载中的会话还没有进程，但对外已是活动会话，
		// 重发时不能把 play 刚写入的记录改写成空闲
		pending := sess.proc == nil
		active = alive || sess.paused || pending

		var pos float64
		if alive || sess.paused {
			pos = position(sess, time.Now())
		}

		snap = model.PlayerSnapshot{
			Playing:  alive && !sess.paused,
			Paused:   sess.paused,
			PlayUUID: sess.playUUID,
			URL:      sess.sourceURL,
			Position: round1(pos),
			Duration: round1(sess.duration),
		}
	}
	c.mu.Unlock()

	// 共享存储只补充展示用元数据，不参与会话状态判定
	if track, err := c.pub.CurrentTrack(ctx); err == nil && track != nil {
		snap.Song = &model.SongInfo{
			Name:    track.Name,
			Artists: track.Artists,
			Album:   track.Album,
			Cover:   track.Cover,
		}
	}

	token := ""
	if active {
		token = snap.PlayUUID
	}
	if err := c.pub.PublishPlayerStatus(ctx, active, token); err != nil {
		logger.Warn("republish player status failed", logger.ErrorField(err))
	}

	return snap
}

// abortSession 处理致命失败：清除会话、发布空闲快照并移除临时文件。
func (c *Controller) abortSession(ctx context.Context, sess *session, localPath string) {
	c.mu.Lock()
	if c.sess == sess {
		c.sess = nil
	}
	c.mu.Unlock()

	if err := c.pub.PublishPlayerStatus(ctx, false, ""); err != nil {
		logger.Warn("publish idle status failed", logger.ErrorField(err))
	}
	if err := c.pub.ClearCurrentTrack(ctx, sess.playUUID); err != nil {
		logger.Warn("clear current track failed", logger.ErrorField(err))
	}
	if localPath != "" {
		os.Remove(localPath)
	}
}

// removeAfterDelay 延迟删除临时文件，避开部分平台上进程刚退出时
// 文件仍被映射的删除竞争。调用方保证运行在独立协程中。
func (c *Controller) removeAfterDelay(path string) {
	if path == "" {
		return
	}
	time.Sleep(c.cleanupDelay)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("remove temp file failed",
			logger.String("path", path),
			logger.ErrorField(err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
