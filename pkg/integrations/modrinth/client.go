package modrinth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/modpublish/pkg/cache"
	perrors "github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/httputil"
	"github.com/matzehuels/modpublish/pkg/integrations"
	"github.com/matzehuels/modpublish/pkg/observability"
	"github.com/matzehuels/modpublish/pkg/publish"
)

const (
	// DefaultBaseURL is the Modrinth API v2.
	DefaultBaseURL = "https://api.modrinth.com/v2"

	// WebURL is the public site used for report links.
	WebURL = "https://modrinth.com"
)

// Client publishes versions to Modrinth. It implements [publish.Uploader].
//
// Loader tags are loaded once per Client and shared by all uploads. All
// methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	webURL  string
	logger  *log.Logger

	loads   singleflight.Group
	mu      sync.RWMutex
	loaders map[string]string // lower-case name -> canonical name
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at another API host (tests use a fake server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.SetHTTPClient(h) }
}

// NewClient creates a Modrinth client. Loader tags are cached in backend
// for cacheTTL.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts ...Option) *Client {
	c := &Client{
		Client:  integrations.NewClient(backend, "modrinth:", cacheTTL, nil),
		baseURL: DefaultBaseURL,
		webURL:  WebURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = publish.NopLogger()
	}
	return c
}

// Platform implements [publish.Uploader].
func (c *Client) Platform() publish.Platform { return publish.Modrinth }

// Loaders returns the known loaders keyed by lower-case name, loading the
// tag list on first use.
func (c *Client) Loaders(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	loaders := c.loaders
	c.mu.RUnlock()
	if loaders != nil {
		return loaders, nil
	}

	v, err, _ := c.loads.Do("loaders", func() (any, error) {
		var tags []LoaderTag
		err := c.Cached(ctx, "tags:loader", false, &tags, func() error {
			return c.Get(ctx, integrations.JoinURL(c.baseURL, "tag", "loader"), &tags)
		})
		if err != nil {
			return nil, fmt.Errorf("modrinth: load loader tags: %w", err)
		}
		m := make(map[string]string, len(tags))
		for _, t := range tags {
			m[strings.ToLower(t.Name)] = t.Name
		}
		c.mu.Lock()
		if c.loaders == nil {
			c.loaders = m
		}
		m = c.loaders
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// Upload implements [publish.Uploader]. The whole upload, including the
// unfeature step, is retried on soft errors with req.Retry.
func (c *Client) Upload(ctx context.Context, req publish.Request) (*publish.Report, error) {
	need := publish.Requirements{Version: true, Loaders: true, GameVersions: true}
	if err := publish.Validate(publish.Modrinth, req, need); err != nil {
		return nil, err
	}
	if err := perrors.ValidateIdentifier(string(publish.Modrinth), req.ID); err != nil {
		return nil, err
	}
	policy, err := ParseUnfeatureMode(req.UnfeatureMode)
	if err != nil {
		return nil, err
	}

	var report *publish.Report
	err = httputil.Retry(ctx, req.Retry.Policy(ctx, publish.Modrinth, c.logger), func() error {
		var err error
		report, err = c.upload(ctx, req, policy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Client) upload(ctx context.Context, req publish.Request, policy UnfeaturePolicy) (*publish.Report, error) {
	api := c.api(req.Token)

	project, err := c.project(ctx, api, req.ID)
	if err != nil {
		return nil, err
	}
	loaders, err := c.normalizeLoaders(ctx, req.Loaders)
	if err != nil {
		return nil, err
	}
	deps, err := c.resolveDependencies(ctx, api, req.Dependencies)
	if err != nil {
		return nil, err
	}

	featured := req.Featured == nil || *req.Featured
	data := createVersion{
		Name:          req.Name,
		VersionNumber: req.Version,
		Changelog:     req.Changelog,
		Dependencies:  deps,
		GameVersions:  req.GameVersions,
		VersionType:   string(req.EffectiveChannel()),
		Loaders:       loaders,
		Featured:      featured,
		ProjectID:     project.ID,
	}
	if data.Name == "" {
		data.Name = req.Version
	}

	form := integrations.NewForm()
	for i := range req.Files {
		part := fmt.Sprintf("file_%d", i)
		data.FileParts = append(data.FileParts, part)
		if i == 0 {
			data.PrimaryFile = part
		}
	}
	if err := form.AddJSON("data", data); err != nil {
		return nil, err
	}
	for i, f := range req.Files {
		form.AddFile(data.FileParts[i], f.FileName(), f.Path)
	}

	var version Version
	if err := api.PostMultipart(ctx, integrations.JoinURL(c.baseURL, "version"), form, &version); err != nil {
		return nil, fmt.Errorf("modrinth: create version %s: %w", req.Version, err)
	}
	c.logger.Info("created version", "platform", publish.Modrinth, "project", project.Slug, "version", version.ID)

	report := &publish.Report{
		Platform:  publish.Modrinth,
		ProjectID: project.ID,
		VersionID: version.ID,
		URL:       c.versionURL(project, version.ID),
	}
	for _, f := range version.Files {
		report.Files = append(report.Files, publish.ReportFile{ID: f.Hashes["sha1"], Name: f.Filename, URL: f.URL})
	}

	if featured && !policy.Disabled {
		current := version.Unfeaturable()
		if current.ProjectID == "" {
			current.ProjectID = project.ID
		}
		if len(current.GameVersions) == 0 {
			current.GameVersions = data.GameVersions
		}
		if len(current.Loaders) == 0 {
			current.Loaders = data.Loaders
		}
		if current.Channel == "" {
			current.Channel = publish.Channel(data.VersionType)
		}
		report.Unfeatured = c.unfeature(ctx, api, current, policy)
	}
	return report, nil
}

// Unfeature unfeatures the featured versions of current's project that
// current supersedes under policy. Failures are collected, never returned.
func (c *Client) Unfeature(ctx context.Context, token string, current UnfeaturableVersion, policy UnfeaturePolicy) []publish.UnfeatureResult {
	return c.unfeature(ctx, c.api(token), current, policy)
}

func (c *Client) unfeature(ctx context.Context, api *integrations.Client, current UnfeaturableVersion, policy UnfeaturePolicy) []publish.UnfeatureResult {
	if policy.Disabled {
		return nil
	}
	hooks := observability.Publish()

	var featured []Version
	url := integrations.JoinURL(c.baseURL, "project", current.ProjectID, "version") + "?featured=true"
	if err := api.Get(ctx, url, &featured); err != nil {
		c.logger.Warn("could not list featured versions", "platform", publish.Modrinth, "err", err)
		return []publish.UnfeatureResult{{Err: fmt.Errorf("list featured versions: %w", err)}}
	}

	var results []publish.UnfeatureResult
	for _, v := range featured {
		if !v.Featured || !ShouldUnfeature(v.Unfeaturable(), current, policy) {
			continue
		}
		err := api.PatchJSON(ctx, integrations.JoinURL(c.baseURL, "version", v.ID), map[string]bool{"featured": false}, nil)
		hooks.OnUnfeature(ctx, string(publish.Modrinth), v.ID, err)
		if err != nil {
			c.logger.Warn("could not unfeature version", "platform", publish.Modrinth, "version", v.ID, "err", err)
		} else {
			c.logger.Debug("unfeatured version", "platform", publish.Modrinth, "version", v.ID, "number", v.VersionNumber)
		}
		results = append(results, publish.UnfeatureResult{VersionID: v.ID, Err: err})
	}
	return results
}

func (c *Client) project(ctx context.Context, api *integrations.Client, id string) (*Project, error) {
	var p Project
	if err := api.Get(ctx, integrations.JoinURL(c.baseURL, "project", id), &p); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "modrinth: project %q not found", id)
		}
		return nil, fmt.Errorf("modrinth: project %s: %w", id, err)
	}
	return &p, nil
}

// normalizeLoaders maps loaders onto Modrinth's tag names. Unknown loaders
// are a validation error naming the loader.
func (c *Client) normalizeLoaders(ctx context.Context, requested []string) ([]string, error) {
	known, err := c.Loaders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(requested))
	for _, l := range requested {
		name, ok := known[strings.ToLower(strings.TrimSpace(l))]
		if !ok {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "modrinth: unknown loader %q", l)
		}
		out = append(out, name)
	}
	return out, nil
}

// resolveDependencies reconciles deps and resolves every identifier to a
// canonical project id. Projects that don't exist are skipped with a warning.
func (c *Client) resolveDependencies(ctx context.Context, api *integrations.Client, deps []publish.Dependency) ([]versionDependency, error) {
	out := []versionDependency{}
	for _, d := range publish.Simplify(deps, publish.Modrinth, DependencyType) {
		var p Project
		found, err := api.GetOrDefault(ctx, integrations.JoinURL(c.baseURL, "project", d.ID), &p)
		if err != nil {
			return nil, fmt.Errorf("modrinth: dependency %s: %w", d.ID, err)
		}
		if !found || p.ID == "" {
			c.logger.Warn("dependency not found, skipping", "platform", publish.Modrinth, "dependency", d.ID)
			continue
		}
		out = append(out, versionDependency{ProjectID: p.ID, DependencyType: d.Kind})
	}
	return out, nil
}

func (c *Client) api(token string) *integrations.Client {
	return c.WithHeaders(map[string]string{"Authorization": token})
}

func (c *Client) versionURL(p *Project, versionID string) string {
	kind := p.ProjectType
	if kind == "" {
		kind = "project"
	}
	slug := p.Slug
	if slug == "" {
		slug = p.ID
	}
	return fmt.Sprintf("%s/%s/%s/version/%s", c.webURL, kind, slug, versionID)
}
