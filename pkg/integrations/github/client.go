package github

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/httputil"
	"github.com/matzehuels/modpublish/pkg/integrations"
	"github.com/matzehuels/modpublish/pkg/publish"
)

const (
	// DefaultBaseURL is the GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// DefaultUploadURL is the host release assets are uploaded to.
	DefaultUploadURL = "https://uploads.github.com"

	apiVersion = "2022-11-28"
)

// Client publishes release assets to GitHub. It implements [publish.Uploader].
type Client struct {
	*integrations.Client
	baseURL   string
	uploadURL string
	logger    *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithUploadURL points asset uploads at another host.
func WithUploadURL(url string) Option {
	return func(c *Client) { c.uploadURL = url }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.SetHTTPClient(h) }
}

// NewClient creates a GitHub releases client.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts ...Option) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": apiVersion,
	}
	c := &Client{
		Client:    integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL:   DefaultBaseURL,
		uploadURL: DefaultUploadURL,
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
func (c *Client) Platform() publish.Platform { return publish.GitHub }

// Upload implements [publish.Uploader]. The whole upload is retried on soft
// errors with req.Retry.
func (c *Client) Upload(ctx context.Context, req publish.Request) (*publish.Report, error) {
	if err := publish.Validate(publish.GitHub, req, publish.Requirements{}); err != nil {
		return nil, err
	}
	owner, repo, err := ParseRepoRef(req.ID)
	if err != nil {
		return nil, err
	}
	tag := req.Tag
	if tag == "" {
		tag = req.Version
	}
	if tag == "" {
		return nil, errors.Missing(string(publish.GitHub), "tag")
	}

	var report *publish.Report
	err = httputil.Retry(ctx, req.Retry.Policy(ctx, publish.GitHub, c.logger), func() error {
		var err error
		report, err = c.upload(ctx, req, owner, repo, tag)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Client) upload(ctx context.Context, req publish.Request, owner, repo, tag string) (*publish.Report, error) {
	api := c.WithHeaders(map[string]string{"Authorization": "Bearer " + req.Token})

	release, err := c.release(ctx, api, owner, repo, tag, req)
	if err != nil {
		return nil, err
	}

	report := &publish.Report{
		Platform:  publish.GitHub,
		ProjectID: owner + "/" + repo,
		VersionID: strconv.FormatInt(release.ID, 10),
		URL:       release.HTMLURL,
	}
	for _, f := range req.Files {
		asset, err := c.uploadAsset(ctx, api, owner, repo, release, f)
		if err != nil {
			return nil, fmt.Errorf("github: upload %s: %w", f.FileName(), err)
		}
		report.Files = append(report.Files, publish.ReportFile{
			ID:   strconv.FormatInt(asset.ID, 10),
			Name: asset.Name,
			URL:  asset.BrowserDownloadURL,
		})
		c.logger.Info("uploaded asset", "platform", publish.GitHub, "release", tag, "file", asset.Name)
	}
	return report, nil
}

// release returns the release for tag, creating it when it doesn't exist.
func (c *Client) release(ctx context.Context, api *integrations.Client, owner, repo, tag string, req publish.Request) (*Release, error) {
	var rel Release
	found, err := api.GetOrDefault(ctx, integrations.JoinURL(c.baseURL, "repos", owner, repo, "releases", "tags", tag), &rel)
	if err != nil {
		return nil, fmt.Errorf("github: release %s: %w", tag, err)
	}
	if found {
		return &rel, nil
	}

	prerelease := req.EffectiveChannel() != publish.Release
	if req.Prerelease != nil {
		prerelease = *req.Prerelease
	}
	body := createRelease{
		TagName:              tag,
		TargetCommitish:      req.Commitish,
		Name:                 req.Name,
		Body:                 req.Changelog,
		Draft:                req.Draft,
		Prerelease:           prerelease,
		GenerateReleaseNotes: req.GenerateNotes,
	}
	if err := api.PostJSON(ctx, integrations.JoinURL(c.baseURL, "repos", owner, repo, "releases"), body, &rel); err != nil {
		return nil, fmt.Errorf("github: create release %s: %w", tag, err)
	}
	c.logger.Info("created release", "platform", publish.GitHub, "release", tag, "prerelease", prerelease)
	return &rel, nil
}

// uploadAsset uploads f, replacing an existing asset with the same name.
func (c *Client) uploadAsset(ctx context.Context, api *integrations.Client, owner, repo string, rel *Release, f publish.File) (*Asset, error) {
	name := f.FileName()
	for _, a := range rel.Assets {
		if a.Name == name {
			c.logger.Debug("replacing asset", "platform", publish.GitHub, "file", name, "id", a.ID)
			endpoint := integrations.JoinURL(c.baseURL, "repos", owner, repo, "releases", "assets", strconv.FormatInt(a.ID, 10))
			if err := api.Delete(ctx, endpoint); err != nil {
				return nil, fmt.Errorf("delete existing asset: %w", err)
			}
		}
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "github: read %s", f.Path)
	}

	endpoint := integrations.JoinURL(c.uploadURL, "repos", owner, repo, "releases", strconv.FormatInt(rel.ID, 10), "assets") +
		"?name=" + url.QueryEscape(name)
	var asset Asset
	if err := api.PostRaw(ctx, endpoint, contentType(name), data, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func contentType(name string) string {
	switch ext := filepath.Ext(name); ext {
	case ".jar":
		return "application/java-archive"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return "application/octet-stream"
}
