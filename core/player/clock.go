package player

import (
	"math"
	"time"
)

// position 计算会话在 now 时刻的播放位置（秒）。
// 每次查询重新计算，从不缓存，暂停与跳转的簿记保证结果无漂移。
func position(s *session, now time.Time) float64 {
	if s == nil || s.startTime.IsZero() {
		return 0
	}

	var elapsed time.Duration
	if s.paused {
		elapsed = s.pausedAt.Sub(s.startTime) - s.totalPaused
	} else {
		elapsed = now.Sub(s.startTime) - s.totalPaused
	}

	pos := s.seekOffset + math.Max(0, elapsed.Seconds())
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	return pos
}

// clampPosition 将跳转目标钳制到 [0, duration]，时长未知时只保证非负。
func clampPosition(target, duration float64) float64 {
	if target < 0 {
		return 0
	}
	if duration > 0 && target > duration {
		return duration
	}
	return target
}

// round1 保留一位小数，用于状态快照中的展示值
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
