//go:build windows

package proc

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// Windows 没有 SIGSTOP/SIGCONT，使用 ntdll 的未公开但长期稳定的
// NtSuspendProcess/NtResumeProcess 实现整进程挂起。

var (
	ntdll            = windows.NewLazySystemDLL("ntdll.dll")
	ntSuspendProcess = ntdll.NewProc("NtSuspendProcess")
	ntResumeProcess  = ntdll.NewProc("NtResumeProcess")
)

func callNtProcess(proc *windows.LazyProc, p *os.Process) error {
	h, err := windows.OpenProcess(windows.PROCESS_SUSPEND_RESUME, false, uint32(p.Pid))
	if err != nil {
		return fmt.Errorf("failed to open process %d: %w", p.Pid, err)
	}
	defer windows.CloseHandle(h)

	if status, _, _ := proc.Call(uintptr(h)); status != 0 {
		return fmt.Errorf("%s failed: NTSTATUS 0x%x", proc.Name, status)
	}
	return nil
}

func suspendProcess(p *os.Process) error {
	return callNtProcess(ntSuspendProcess, p)
}

func resumeProcess(p *os.Process) error {
	return callNtProcess(ntResumeProcess, p)
}

func terminateProcess(p *os.Process) error {
	// Windows 没有可拦截的终止信号，直接结束进程
	return p.Kill()
}
