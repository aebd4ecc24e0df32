package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPositionWhilePlaying(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime: now.Add(-10 * time.Second),
		duration:  200,
	}

	assert.InDelta(t, 10.0, position(s, now), 0.001)

	// 位置随时间单调不减
	later := now.Add(3 * time.Second)
	assert.InDelta(t, 13.0, position(s, later), 0.001)
}

func TestPositionWhilePaused(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime: now.Add(-30 * time.Second),
		paused:    true,
		pausedAt:  now.Add(-20 * time.Second),
		duration:  200,
	}

	// 暂停后位置冻结在暂停时刻，不随 now 推进
	assert.InDelta(t, 10.0, position(s, now), 0.001)
	assert.InDelta(t, 10.0, position(s, now.Add(time.Minute)), 0.001)
}

func TestPositionAccountsAccumulatedPause(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime:   now.Add(-60 * time.Second),
		totalPaused: 15 * time.Second,
		duration:    200,
	}

	assert.InDelta(t, 45.0, position(s, now), 0.001)
}

func TestPositionWithSeekOffset(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime:  now.Add(-5 * time.Second),
		seekOffset: 150,
		duration:   200,
	}

	assert.InDelta(t, 155.0, position(s, now), 0.001)
}

func TestPositionClampedToDuration(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime: now.Add(-300 * time.Second),
		duration:  200,
	}

	assert.InDelta(t, 200.0, position(s, now), 0.001)
}

func TestPositionUnknownDurationUnbounded(t *testing.T) {
	now := time.Now()
	s := &session{
		startTime: now.Add(-300 * time.Second),
	}

	assert.InDelta(t, 300.0, position(s, now), 0.001)
}

func TestPositionNeverNegative(t *testing.T) {
	now := time.Now()
	// 时钟回拨或刚启动时 elapsed 可能为负，位置不得小于跳转偏移
	s := &session{
		startTime:  now.Add(2 * time.Second),
		seekOffset: 30,
	}

	assert.InDelta(t, 30.0, position(s, now), 0.001)
}

func TestPositionNilSession(t *testing.T) {
	assert.Zero(t, position(nil, time.Now()))
	assert.Zero(t, position(&session{}, time.Now()))
}

func TestPositionNonDecreasingAcrossPauseResume(t *testing.T) {
	base := time.Now()
	s := &session{startTime: base, duration: 500}

	var last float64
	now := base
	for i := 0; i < 5; i++ {
		// 播放 10 秒
		now = now.Add(10 * time.Second)
		p := position(s, now)
		assert.GreaterOrEqual(t, p, last)
		last = p

		// 暂停 7 秒
		s.paused = true
		s.pausedAt = now
		now = now.Add(7 * time.Second)
		p = position(s, now)
		assert.InDelta(t, last, p, 0.001, "position must hold still while paused")

		// 恢复
		s.totalPaused += now.Sub(s.pausedAt)
		s.paused = false
		s.pausedAt = time.Time{}
		p = position(s, now)
		assert.InDelta(t, last, p, 0.001, "position must not jump on resume")
		last = p
	}
}

func TestClampPosition(t *testing.T) {
	assert.Equal(t, 0.0, clampPosition(-3, 200))
	assert.Equal(t, 150.5, clampPosition(150.5, 200))
	assert.Equal(t, 200.0, clampPosition(500, 200))
	// 时长未知时上界开放
	assert.Equal(t, 99999.0, clampPosition(99999, 0))
	assert.Equal(t, 0.0, clampPosition(-1, 0))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 10.0, round1(10.04))
	assert.Equal(t, 10.1, round1(10.06))
	assert.Equal(t, 0.0, round1(0))
}
