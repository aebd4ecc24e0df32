package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"OopzAudio/model"

	"github.com/go-redis/redis/v8"
)

// 共享存储键。current 由点歌组件写入、本服务清理；player_status 只由本服务写入。
const (
	KeyCurrentTrack = "music:current"
	KeyPlayerStatus = "music:player_status"
)

// store 是发布器依赖的最小Redis能力集
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Publisher 将播放器状态镜像到共享存储，供外部组件读取。
// 镜像是尽力而为的，永远不作为会话状态的事实来源。
type Publisher struct {
	rdb store
}

// NewPublisher 创建状态发布器
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishPlayerStatus 写入 music:player_status 记录。空 playUUID 表示空闲。
func (p *Publisher) PublishPlayerStatus(ctx context.Context, playing bool, playUUID string) error {
	status := model.PlayerStatus{Playing: playing}
	if playUUID != "" {
		status.PlayUUID = &playUUID
	}

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal player status: %w", err)
	}

	if err := p.rdb.Set(ctx, KeyPlayerStatus, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to publish player status: %w", err)
	}
	return nil
}

// CurrentTrack 读取 music:current 中的曲目元数据，键不存在时返回 nil。
func (p *Publisher) CurrentTrack(ctx context.Context) (*model.CurrentTrack, error) {
	raw, err := p.rdb.Get(ctx, KeyCurrentTrack).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current track: %w", err)
	}

	var track model.CurrentTrack
	if err := json.Unmarshal([]byte(raw), &track); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current track: %w", err)
	}
	return &track, nil
}

// ClearCurrentTrack 清理 music:current。
// 只在记录属于 playUUID 对应的会话时删除，避免误清新写入的曲目；
// playUUID 为空时无条件删除。
func (p *Publisher) ClearCurrentTrack(ctx context.Context, playUUID string) error {
	track, err := p.CurrentTrack(ctx)
	if err != nil {
		return err
	}
	if track == nil {
		return nil
	}

	if playUUID == "" || track.PlayUUID == playUUID {
		if err := p.rdb.Del(ctx, KeyCurrentTrack).Err(); err != nil {
			return fmt.Errorf("failed to clear current track: %w", err)
		}
	}
	return nil
}

// ResetPlaybackState 启动时清理残留的播放状态，防止旧数据误导外部组件。
func (p *Publisher) ResetPlaybackState(ctx context.Context) error {
	if err := p.rdb.Del(ctx, KeyPlayerStatus, KeyCurrentTrack).Err(); err != nil {
		return fmt.Errorf("failed to reset playback state: %w", err)
	}
	return nil
}
