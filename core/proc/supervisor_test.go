package proc

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio_test.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
	return path
}

// requireTool 跳过没有对应系统工具的环境
func requireTool(t *testing.T, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix tools required")
	}
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available", name)
	}
	return path
}

func TestSpawnMissingBinary(t *testing.T) {
	s := NewSupervisor("/nonexistent/ffplay", "/nonexistent/ffprobe")

	_, err := s.Spawn(testAudioFile(t), 0)
	require.Error(t, err)
}

func TestSpawnAndWait(t *testing.T) {
	// true 忽略一切参数并立即退出，足以验证句柄的生命周期语义
	truePath := requireTool(t, "true")
	s := NewSupervisor(truePath, truePath)

	h, err := s.Spawn(testAudioFile(t), 0)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process never reported exit")
	}

	assert.False(t, h.Alive())
	// 已退出的进程上 Terminate 是空操作，不得阻塞或崩溃
	h.Terminate(100 * time.Millisecond)
}

func TestProbeFailureReportsUnknown(t *testing.T) {
	truePath := requireTool(t, "true")
	// true 不产生 ffprobe 输出，探测必须以 ok=false 收场而非报错中断
	s := NewSupervisor(truePath, truePath)

	duration, ok := s.Probe(testAudioFile(t))
	assert.False(t, ok)
	assert.Zero(t, duration)
}

func TestProbeMissingBinary(t *testing.T) {
	s := NewSupervisor("/nonexistent/ffplay", "/nonexistent/ffprobe")

	duration, ok := s.Probe(testAudioFile(t))
	assert.False(t, ok)
	assert.Zero(t, duration)
}
