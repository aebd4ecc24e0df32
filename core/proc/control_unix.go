//go:build !windows

package proc

import (
	"os"

	"golang.org/x/sys/unix"
)

// 调度层面的暂停：SIGSTOP 停住进程，SIGCONT 恢复。恢复瞬间可能有
// 轻微的音频不连续，这是按进程粒度暂停的已知代价。

func suspendProcess(p *os.Process) error {
	return p.Signal(unix.SIGSTOP)
}

func resumeProcess(p *os.Process) error {
	return p.Signal(unix.SIGCONT)
}

func terminateProcess(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
