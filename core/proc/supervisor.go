package proc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"OopzAudio/core/player"
	"OopzAudio/logger"
)

// probeTimeout 限制一次 ffprobe 调用的最长时间
const probeTimeout = 10 * time.Second

// Supervisor 负责启动外部播放器（ffplay）与时长探测器（ffprobe）。
type Supervisor struct {
	ffplayPath  string
	ffprobePath string
}

// NewSupervisor 创建进程监督器
func NewSupervisor(ffplayPath, ffprobePath string) *Supervisor {
	return &Supervisor{ffplayPath: ffplayPath, ffprobePath: ffprobePath}
}

// Spawn 从 offsetSeconds 秒处开始播放本地文件，返回进程句柄。
// 小数偏移原样传给 -ss，不做取整。
func (s *Supervisor) Spawn(localPath string, offsetSeconds float64) (player.Process, error) {
	args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	if offsetSeconds > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offsetSeconds, 'f', -1, 64))
	}
	args = append(args, localPath)

	cmd := exec.Command(s.ffplayPath, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", s.ffplayPath, err)
	}

	h := &Handle{cmd: cmd, done: make(chan struct{})}
	go func() {
		// 进程的退出状态无关紧要，句柄只关心它何时退出
		cmd.Wait()
		close(h.done)
	}()

	logger.Debug("player process spawned",
		logger.Int("pid", cmd.Process.Pid),
		logger.Float64("offset", offsetSeconds))
	return h, nil
}

// ffprobeOutput defines the structure for ffprobe JSON output.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe 用 ffprobe 获取音频时长（秒）。失败非致命，ok 返回 false，
// 调用方按时长未知继续。
func (s *Supervisor) Probe(localPath string) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		localPath,
	}

	cmd := exec.CommandContext(ctx, s.ffprobePath, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Warn("ffprobe execution failed",
			logger.String("path", localPath),
			logger.String("stderr", stderr.String()),
			logger.ErrorField(err))
		return 0, false
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		logger.Warn("failed to unmarshal ffprobe output", logger.ErrorField(err))
		return 0, false
	}
	if probeData.Format.Duration == "" {
		logger.Warn("duration not found in ffprobe output", logger.String("path", localPath))
		return 0, false
	}

	duration, err := strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		logger.Warn("failed to parse ffprobe duration",
			logger.String("value", probeData.Format.Duration),
			logger.ErrorField(err))
		return 0, false
	}

	return duration, true
}
