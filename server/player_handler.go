package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"OopzAudio/core/player"
)

// PlayerHandler 处理播放控制API请求
type PlayerHandler struct {
	controller *player.Controller
}

// NewPlayerHandler 创建新的播放控制处理器
func NewPlayerHandler(controller *player.Controller) *PlayerHandler {
	return &PlayerHandler{controller: controller}
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondFailure(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}

// PlayHandler 处理 GET /play?url=...&uuid=...
// uuid 缺省时生成新的播放追踪标识并在应答中返回。
func (h *PlayerHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if sourceURL == "" {
		respondFailure(w, http.StatusBadRequest, "缺少 url 参数")
		return
	}

	result := h.controller.Play(r.Context(), sourceURL, r.URL.Query().Get("uuid"))
	respondJSON(w, http.StatusOK, result)
}

// StopHandler 处理 GET /stop，幂等
func (h *PlayerHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.Stop(r.Context()))
}

// PauseHandler 处理 GET /pause
func (h *PlayerHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	// 所有控制失败都以结构化结果返回，不向调用方抛 5xx
	result, _ := h.controller.Pause(r.Context())
	respondJSON(w, http.StatusOK, result)
}

// ResumeHandler 处理 GET /resume
func (h *PlayerHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	result, _ := h.controller.Resume(r.Context())
	respondJSON(w, http.StatusOK, result)
}

// SeekHandler 处理 GET /seek?position=秒（支持小数）
func (h *PlayerHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("position")
	if raw == "" {
		respondFailure(w, http.StatusBadRequest, "缺少 position 参数")
		return
	}
	target, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "position 参数无效")
		return
	}

	result, _ := h.controller.Seek(r.Context(), target)
	respondJSON(w, http.StatusOK, result)
}

// StatusHandler 处理 GET /status，返回含进度的播放快照
func (h *PlayerHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.Status(r.Context()))
}

// HealthHandler 处理 GET /health
func (h *PlayerHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "AudioService",
	})
}
