package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger. Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse", "source", source)
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parsed", "source", source, "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnFrame(_ context.Context, rects int, d time.Duration) {
	h.logger.Debug("frame", "rects", rects, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	lvl := log.InfoLevel
	if status >= 500 {
		lvl = log.ErrorLevel
	}
	h.logger.Log(lvl, "response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
