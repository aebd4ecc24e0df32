package proc

import (
	"os/exec"
	"time"

	"OopzAudio/logger"
)

// Handle 包装一个正在运行的外部播放进程，实现 player.Process。
// 内部协程独占 cmd.Wait，其余方法通过 done 通道观察退出。
type Handle struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Wait 阻塞直到进程退出
func (h *Handle) Wait() {
	<-h.done
}

// Alive 报告进程是否仍在运行（被挂起的进程视为存活）
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Suspend 在调度层面挂起进程
func (h *Handle) Suspend() error {
	return suspendProcess(h.cmd.Process)
}

// Resume 恢复被挂起的进程
func (h *Handle) Resume() error {
	return resumeProcess(h.cmd.Process)
}

// Terminate 请求优雅退出，grace 内未退出则强制 kill。已退出时为空操作。
func (h *Handle) Terminate(grace time.Duration) {
	if !h.Alive() {
		return
	}

	if err := terminateProcess(h.cmd.Process); err != nil {
		// 优雅信号不可用（或进程恰好已退出），直接强制终止
		h.cmd.Process.Kill()
	}

	select {
	case <-h.done:
	case <-time.After(grace):
		logger.Warn("process did not exit within grace period, killing",
			logger.Int("pid", h.cmd.Process.Pid),
			logger.Duration("grace", grace))
		h.cmd.Process.Kill()
		<-h.done
	}
}
