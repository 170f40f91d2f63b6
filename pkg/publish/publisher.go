package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modpublish/pkg/observability"
)

//go:generate mockgen -destination=./mocks/uploader.go -package=mocks . Uploader

// Uploader publishes a request to one platform.
type Uploader interface {
	Platform() Platform
	Upload(ctx context.Context, req Request) (*Report, error)
}

// NopLogger returns a logger that discards everything. Passing it instead of
// a real logger never changes behavior.
func NopLogger() *log.Logger {
	return log.New(io.Discard)
}

func loggerOrNop(l *log.Logger) *log.Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}

// Result is the outcome of publishing to one platform.
type Result struct {
	Platform Platform
	Report   *Report
	Err      error
	Duration time.Duration
}

// Publisher publishes requests to several platforms one after another.
type Publisher struct {
	uploaders []Uploader
	logger    *log.Logger
}

// NewPublisher creates a publisher. Platforms are published in the order
// the uploaders are given. A nil logger discards output.
func NewPublisher(logger *log.Logger, uploaders ...Uploader) *Publisher {
	return &Publisher{uploaders: uploaders, logger: loggerOrNop(logger)}
}

// Publish uploads reqs[p] with the uploader of each platform p. Platforms
// without a request are skipped; requests without an uploader are an error.
// A failing platform does not stop the others. The returned error joins the
// errors of all failed platforms.
func (p *Publisher) Publish(ctx context.Context, reqs map[Platform]Request) ([]Result, error) {
	known := make(map[Platform]bool, len(p.uploaders))
	for _, u := range p.uploaders {
		known[u.Platform()] = true
	}
	for platform := range reqs {
		if !known[platform] {
			return nil, fmt.Errorf("no uploader for platform %q", platform)
		}
	}

	var (
		results []Result
		errs    []error
	)
	hooks := observability.Publish()
	for _, u := range p.uploaders {
		platform := u.Platform()
		req, ok := reqs[platform]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", platform, err))
			results = append(results, Result{Platform: platform, Err: err})
			continue
		}

		p.logger.Info("publishing", "platform", platform, "project", req.ID, "version", req.Version)
		hooks.OnUploadStart(ctx, string(platform), req.ID)
		start := time.Now()

		report, err := u.Upload(ctx, req.Clone())

		elapsed := time.Since(start)
		hooks.OnUploadComplete(ctx, string(platform), req.ID, elapsed, err)
		results = append(results, Result{Platform: platform, Report: report, Err: err, Duration: elapsed})

		if err != nil {
			p.logger.Error("publish failed", "platform", platform, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", platform, err))
			continue
		}
		p.logger.Info("published", "platform", platform, "version", report.VersionID, "url", report.URL,
			"elapsed", elapsed.Round(time.Millisecond))
		for _, f := range report.UnfeatureFailures() {
			p.logger.Warn("could not unfeature version", "platform", platform, "version", f.VersionID, "err", f.Err)
		}
	}
	return results, errors.Join(errs...)
}
