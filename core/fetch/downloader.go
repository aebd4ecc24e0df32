package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"OopzAudio/logger"
)

// Downloader 将远程音频流式写入会话独占的本地临时文件。
// 部分上游会拒绝无浏览器身份的请求，因此每个请求都带 UA 与 Referer。
type Downloader struct {
	client    *http.Client
	dir       string // 为空时使用系统临时目录
	userAgent string
	referer   string
}

// NewDownloader 创建下载器
func NewDownloader(dir, userAgent, referer string) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: 5 * time.Minute, // 整体兜底，正常下载远小于此
		},
		dir:       dir,
		userAgent: userAgent,
		referer:   referer,
	}
}

// Fetch 下载 sourceURL 指向的音频，返回临时文件路径。
// 响应体按块流式写盘，不整体缓冲。任何失败都不留下残余文件。
func (d *Downloader) Fetch(ctx context.Context, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if d.referer != "" {
		req.Header.Set("Referer", d.referer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	suffix := extensionForContentType(resp.Header.Get("Content-Type"))

	f, err := os.CreateTemp(d.dir, "audio_*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write audio to %s: %w", f.Name(), err)
	}

	logger.Info("download completed",
		logger.String("path", f.Name()),
		logger.Int64("bytes", written))
	return f.Name(), nil
}

// extensionForContentType 根据声明的内容类型选择容器后缀，未知类型按 mp3 处理。
func extensionForContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "mp4"), strings.Contains(ct, "m4a"):
		return ".m4a"
	case strings.Contains(ct, "flac"):
		return ".flac"
	default:
		return ".mp3"
	}
}
