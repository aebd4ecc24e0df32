package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"OopzAudio/model"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeStore) setCurrent(t *testing.T, track model.CurrentTrack) {
	t.Helper()
	data, err := json.Marshal(track)
	require.NoError(t, err)
	f.data[KeyCurrentTrack] = string(data)
}

func TestPublishPlayerStatusPlaying(t *testing.T) {
	fs := newFakeStore()
	p := &Publisher{rdb: fs}

	require.NoError(t, p.PublishPlayerStatus(context.Background(), true, "t1"))

	var status model.PlayerStatus
	require.NoError(t, json.Unmarshal([]byte(fs.data[KeyPlayerStatus]), &status))
	assert.True(t, status.Playing)
	require.NotNil(t, status.PlayUUID)
	assert.Equal(t, "t1", *status.PlayUUID)
}

func TestPublishPlayerStatusIdle(t *testing.T) {
	fs := newFakeStore()
	p := &Publisher{rdb: fs}

	require.NoError(t, p.PublishPlayerStatus(context.Background(), false, ""))

	// 空闲时 playUuid 必须是 null，外部组件以此判断无曲目
	assert.JSONEq(t, `{"playing":false,"playUuid":null}`, fs.data[KeyPlayerStatus])
}

func TestCurrentTrackMissingKey(t *testing.T) {
	p := &Publisher{rdb: newFakeStore()}

	track, err := p.CurrentTrack(context.Background())
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestCurrentTrackRoundTrip(t *testing.T) {
	fs := newFakeStore()
	fs.setCurrent(t, model.CurrentTrack{Name: "晴天", Artists: "周杰伦", PlayUUID: "t1"})
	p := &Publisher{rdb: fs}

	track, err := p.CurrentTrack(context.Background())
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "晴天", track.Name)
	assert.Equal(t, "t1", track.PlayUUID)
}

func TestClearCurrentTrackGuardedByToken(t *testing.T) {
	fs := newFakeStore()
	fs.setCurrent(t, model.CurrentTrack{Name: "a", PlayUUID: "t2"})
	p := &Publisher{rdb: fs}
	ctx := context.Background()

	// 不属于 t1 的记录不能被 t1 的结束事件清掉
	require.NoError(t, p.ClearCurrentTrack(ctx, "t1"))
	assert.Contains(t, fs.data, KeyCurrentTrack)

	require.NoError(t, p.ClearCurrentTrack(ctx, "t2"))
	assert.NotContains(t, fs.data, KeyCurrentTrack)
}

func TestClearCurrentTrackUnconditional(t *testing.T) {
	fs := newFakeStore()
	fs.setCurrent(t, model.CurrentTrack{Name: "a", PlayUUID: "t2"})
	p := &Publisher{rdb: fs}

	require.NoError(t, p.ClearCurrentTrack(context.Background(), ""))
	assert.NotContains(t, fs.data, KeyCurrentTrack)
}

func TestClearCurrentTrackNoRecord(t *testing.T) {
	p := &Publisher{rdb: newFakeStore()}
	assert.NoError(t, p.ClearCurrentTrack(context.Background(), "t1"))
}

func TestResetPlaybackState(t *testing.T) {
	fs := newFakeStore()
	fs.data[KeyPlayerStatus] = `{"playing":true,"playUuid":"stale"}`
	fs.setCurrent(t, model.CurrentTrack{Name: "stale", PlayUUID: "stale"})
	p := &Publisher{rdb: fs}

	require.NoError(t, p.ResetPlaybackState(context.Background()))
	assert.Empty(t, fs.data)
}
