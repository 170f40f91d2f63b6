package publish

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modpublish/pkg/httputil"
	"github.com/matzehuels/modpublish/pkg/observability"
)

// DefaultRetry is used when a request does not set its own retry policy.
var DefaultRetry = RetryPolicy{Attempts: 2, Delay: 10 * time.Second}

// Request is one version to publish to one platform.
//
// ID is the project id or slug, or "owner/repo" for GitHub. Files are
// ordered; the first one is the primary file. Requests are passed by value;
// uploaders call [Request.Clone] before changing anything.
type Request struct {
	ID           string
	Token        string
	Files        []File
	Name         string
	Version      string
	Channel      Channel
	Changelog    string
	Loaders      []string
	GameVersions []string
	JavaVersions []string
	Dependencies []Dependency
	Retry        RetryPolicy

	// Platform extras. Uploaders that don't support an option ignore it.
	Featured      *bool
	UnfeatureMode string
	Tag           string
	Commitish     string
	Draft         bool
	Prerelease    *bool
	GenerateNotes bool
}

// File is a file to upload.
type File struct {
	Path string
	Name string // defaults to the base name of Path
}

// NewFile creates a File named after the base name of path.
func NewFile(path string) File {
	return File{Path: path, Name: filepath.Base(path)}
}

// FileName returns Name, or the base name of Path when Name is empty.
func (f File) FileName() string {
	if f.Name != "" {
		return f.Name
	}
	return filepath.Base(f.Path)
}

// Open opens the file for reading.
func (f File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Capabilities is the compatibility triple carried by a request.
type Capabilities struct {
	Loaders      []string
	GameVersions []string
	JavaVersions []string
}

// IsEmpty reports whether no capability is set.
func (c Capabilities) IsEmpty() bool {
	return len(c.Loaders) == 0 && len(c.GameVersions) == 0 && len(c.JavaVersions) == 0
}

// Capabilities returns the loaders, game versions and Java versions of r.
func (r Request) Capabilities() Capabilities {
	return Capabilities{
		Loaders:      slices.Clone(r.Loaders),
		GameVersions: slices.Clone(r.GameVersions),
		JavaVersions: slices.Clone(r.JavaVersions),
	}
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	c := r
	c.Files = slices.Clone(r.Files)
	c.Loaders = slices.Clone(r.Loaders)
	c.GameVersions = slices.Clone(r.GameVersions)
	c.JavaVersions = slices.Clone(r.JavaVersions)
	c.Dependencies = make([]Dependency, len(r.Dependencies))
	for i, d := range r.Dependencies {
		c.Dependencies[i] = d.Clone()
	}
	if r.Dependencies == nil {
		c.Dependencies = nil
	}
	if r.Featured != nil {
		v := *r.Featured
		c.Featured = &v
	}
	if r.Prerelease != nil {
		v := *r.Prerelease
		c.Prerelease = &v
	}
	return c
}

// EffectiveChannel returns the request channel, inferring it from the
// version string when unset.
func (r Request) EffectiveChannel() Channel {
	if r.Channel != "" {
		return r.Channel
	}
	return ChannelFromVersion(r.Version)
}

// RetryPolicy bounds the whole-upload retry loop.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Policy converts p into an [httputil.Policy]. A zero policy falls back to
// [DefaultRetry]. Retries are logged at info level with the platform name
// and reported to the publish hooks.
func (p RetryPolicy) Policy(ctx context.Context, platform Platform, logger *log.Logger) httputil.Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultRetry.Attempts
		if p.Delay == 0 {
			p.Delay = DefaultRetry.Delay
		}
	}
	p.Delay = max(p.Delay, 0)
	logger = loggerOrNop(logger)
	return httputil.Policy{
		Attempts:    p.Attempts,
		Delay:       p.Delay,
		Recoverable: httputil.IsRetryable,
		OnRetry: func(attempt int, err error) {
			logger.Info("upload failed, retrying", "platform", platform, "attempt", attempt, "of", p.Attempts, "delay", p.Delay, "err", err)
			observability.Publish().OnRetry(ctx, string(platform), attempt, err)
		},
	}
}
