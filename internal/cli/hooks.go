package cli

import (
	"context"
	"time"

	"github.com/matzehuels/modpublish/pkg/observability"
)

// logHooks reports library events through the logger attached to the
// context. Everything goes out at debug level; the publisher already logs
// upload outcomes at info.
type logHooks struct{}

var (
	_ observability.PublishHooks = logHooks{}
	_ observability.CacheHooks   = logHooks{}
	_ observability.HTTPHooks    = logHooks{}
)

// registerHooks routes observability events to the run logger.
func registerHooks() {
	observability.SetPublishHooks(logHooks{})
	observability.SetCacheHooks(logHooks{})
	observability.SetHTTPHooks(logHooks{})
}

func (logHooks) OnUploadStart(ctx context.Context, platform, project string) {
	loggerFromContext(ctx).Debug("upload started", "platform", platform, "project", project)
}

func (logHooks) OnUploadComplete(ctx context.Context, platform, project string, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("upload failed", "platform", platform, "project", project, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	l.Debug("upload finished", "platform", platform, "project", project, "took", d.Round(time.Millisecond))
}

func (logHooks) OnRetry(ctx context.Context, platform string, attempt int, err error) {
	loggerFromContext(ctx).Debug("retrying", "platform", platform, "attempt", attempt, "err", err)
}

func (logHooks) OnRepair(ctx context.Context, platform, action, detail string) {
	loggerFromContext(ctx).Debug("repaired request", "platform", platform, "action", action, "cause", detail)
}

func (logHooks) OnUnfeature(ctx context.Context, platform, versionID string, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("unfeature failed", "platform", platform, "version", versionID, "err", err)
		return
	}
	l.Debug("unfeatured", "platform", platform, "version", versionID)
}

func (logHooks) OnCacheHit(ctx context.Context, key string) {
	loggerFromContext(ctx).Debug("cache hit", "key", key)
}

func (logHooks) OnCacheMiss(ctx context.Context, key string) {
	loggerFromContext(ctx).Debug("cache miss", "key", key)
}

func (logHooks) OnCacheSet(ctx context.Context, key string, size int) {
	loggerFromContext(ctx).Debug("cache set", "key", key, "bytes", size)
}

func (logHooks) OnRequest(ctx context.Context, method, host, path string) {
	loggerFromContext(ctx).Debug("request", "method", method, "host", host, "path", path)
}

func (logHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	loggerFromContext(ctx).Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	loggerFromContext(ctx).Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
