package server

import (
	"context"
	"net/http"
	"time"

	"OopzAudio/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// 单次推送的写超时，失速的对端不能无限期占用推送协程
const wsWriteWait = 10 * time.Second

// StatusStreamHandler 通过 WebSocket 每秒推送一次播放快照，
// 供网页播放器等界面使用，替代对 /status 的高频轮询。
func (h *PlayerHandler) StatusStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	// 读协程只为感知对端关闭
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snapshot := h.controller.Status(context.Background())
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}
