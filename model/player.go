package model

// CurrentTrack 是共享存储中 music:current 键的曲目元数据记录。
// 由上游点歌组件写入，本服务只在播放结束时按 play_uuid 清理。
type CurrentTrack struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Artists      string `json:"artists"`
	Album        string `json:"album"`
	Cover        string `json:"cover"`
	DurationText string `json:"durationText,omitempty"`
	PlayUUID     string `json:"play_uuid,omitempty"`
}

// PlayerStatus 是共享存储中 music:player_status 键的记录。
// 空闲时 PlayUUID 为 null。
type PlayerStatus struct {
	Playing  bool    `json:"playing"`
	PlayUUID *string `json:"playUuid"`
}

// SongInfo 是状态快照中携带的曲目展示信息。
type SongInfo struct {
	Name    string `json:"name"`
	Artists string `json:"artists"`
	Album   string `json:"album"`
	Cover   string `json:"cover"`
}

// PlayerSnapshot 是一次状态查询的只读快照，按需计算，从不缓存。
type PlayerSnapshot struct {
	Playing  bool      `json:"playing"`
	Paused   bool      `json:"paused"`
	PlayUUID string    `json:"playUuid"`
	URL      string    `json:"url"`
	Position float64   `json:"position"`
	Duration float64   `json:"duration"`
	Song     *SongInfo `json:"song"`
}

// PlayResult 是 play 操作的应答，表示请求已受理而非音频已开始。
type PlayResult struct {
	Status   bool   `json:"status"`
	Message  string `json:"message"`
	PlayUUID string `json:"uuid"`
}

// StopResult 是 stop 操作的应答。
type StopResult struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Playing bool   `json:"playing"`
}

// PauseResult 是 pause/resume 操作的应答。
type PauseResult struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Paused  bool   `json:"paused"`
}

// SeekResult 是 seek 操作的应答，Position 为钳制后的实际目标位置。
type SeekResult struct {
	Status   bool    `json:"status"`
	Message  string  `json:"message"`
	Position float64 `json:"position"`
}
