package curseforge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/httputil"
	"github.com/matzehuels/modpublish/pkg/integrations"
	"github.com/matzehuels/modpublish/pkg/observability"
	"github.com/matzehuels/modpublish/pkg/publish"
)

const (
	// DefaultBaseURL is the CurseForge upload API for Minecraft.
	DefaultBaseURL = "https://minecraft.curseforge.com"

	// WebURL is the public site used for report links.
	WebURL = "https://www.curseforge.com/minecraft/mc-mods"

	tokenHeader = "X-Api-Token"
)

// Client uploads files to CurseForge. It implements [publish.Uploader].
//
// The game-version table is loaded once per Client and shared by all
// uploads; concurrent first loads are collapsed. All methods are safe for
// concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	webURL  string
	logger  *log.Logger

	loads singleflight.Group
	mu    sync.RWMutex
	table *VersionTable
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at another API host (tests use a fake server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.SetHTTPClient(h) }
}

// NewClient creates a CurseForge client. The version table is cached in
// backend for cacheTTL.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts ...Option) *Client {
	c := &Client{
		Client:  integrations.NewClient(backend, "curseforge:", cacheTTL, nil),
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
func (c *Client) Platform() publish.Platform { return publish.CurseForge }

type tableData struct {
	Types    []GameVersionType `json:"types"`
	Versions []GameVersion     `json:"versions"`
}

// VersionTable returns the game-version table, loading it on first use.
func (c *Client) VersionTable(ctx context.Context, token string) (*VersionTable, error) {
	c.mu.RLock()
	table := c.table
	c.mu.RUnlock()
	if table != nil {
		return table, nil
	}

	v, err, _ := c.loads.Do("versions", func() (any, error) {
		api := c.api(token)
		var data tableData
		err := c.Cached(ctx, "versions", false, &data, func() error {
			if err := api.Get(ctx, integrations.JoinURL(c.baseURL, "api", "game", "version-types"), &data.Types); err != nil {
				return err
			}
			return api.Get(ctx, integrations.JoinURL(c.baseURL, "api", "game", "versions"), &data.Versions)
		})
		if err != nil {
			return nil, fmt.Errorf("curseforge: load game versions: %w", err)
		}

		table := NewVersionTable(data.Types, data.Versions)
		c.mu.Lock()
		if c.table == nil {
			c.table = table
		}
		table = c.table
		c.mu.Unlock()
		c.logger.Debug("loaded game versions", "platform", publish.CurseForge, "versions", table.Len())
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*VersionTable), nil
}

// Resolve returns the variant groups for caps.
func (c *Client) Resolve(ctx context.Context, token string, caps publish.Capabilities) (VariantSet, error) {
	table, err := c.VersionTable(ctx, token)
	if err != nil {
		return nil, err
	}
	return ResolveVariants(table, caps), nil
}

// Upload implements [publish.Uploader]. Relations are reconciled once; the
// whole upload is then retried on soft errors with req.Retry, while each
// file runs its own repair loop.
func (c *Client) Upload(ctx context.Context, req publish.Request) (*publish.Report, error) {
	if err := publish.Validate(publish.CurseForge, req, publish.Requirements{GameVersions: true}); err != nil {
		return nil, err
	}
	if err := errors.ValidateNumericID(string(publish.CurseForge), req.ID); err != nil {
		return nil, err
	}

	var relations []Relation
	for _, d := range publish.DistinctByID(publish.Simplify(req.Dependencies, publish.CurseForge, RelationType)) {
		relations = append(relations, Relation{Slug: d.ID, Type: d.Kind})
	}

	var report *publish.Report
	err := httputil.Retry(ctx, req.Retry.Policy(ctx, publish.CurseForge, c.logger), func() error {
		var err error
		report, err = c.upload(ctx, req, relations)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Client) upload(ctx context.Context, req publish.Request, relations []Relation) (*publish.Report, error) {
	variants, err := c.Resolve(ctx, req.Token, req.Capabilities())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("resolved version variants", "platform", publish.CurseForge, "groups", len(variants))

	api := c.api(req.Token)
	report := &publish.Report{Platform: publish.CurseForge, ProjectID: req.ID}

	sub := Submission{
		Changelog:   req.Changelog,
		ReleaseType: string(req.EffectiveChannel()),
		Relations:   relations,
		Variants:    variants,
	}
	for i, f := range req.Files {
		sub.File = f
		sub.DisplayName = req.Name
		if i > 0 || sub.DisplayName == "" {
			sub.DisplayName = f.FileName()
		}

		res, err := c.uploadFile(ctx, api, req.ID, sub)
		if err != nil {
			return nil, fmt.Errorf("curseforge: upload %s: %w", f.FileName(), err)
		}
		if i == 0 {
			sub.ParentFileID = res.ID
			report.VersionID = strconv.Itoa(res.ID)
			report.URL = c.fileURL(req.ID, res.ID)
		}
		// Later files reuse the repaired relations.
		sub.Relations = res.Submission.Relations

		report.Files = append(report.Files, publish.ReportFile{
			ID:   strconv.Itoa(res.ID),
			Name: f.FileName(),
			URL:  c.fileURL(req.ID, res.ID),
		})
		c.logger.Info("uploaded file", "platform", publish.CurseForge, "file", f.FileName(), "id", res.ID)
	}
	return report, nil
}

type fileResult struct {
	ID         int
	Submission Submission
}

// uploadFile submits one file, repairing the submission after each
// structured rejection that [Repair] can fix.
func (c *Client) uploadFile(ctx context.Context, api *integrations.Client, projectID string, sub Submission) (fileResult, error) {
	// Every repair removes a relation or a variant group, so this bounds the loop.
	attempts := len(sub.Relations) + len(sub.Variants) + 1
	policy := httputil.Policy{
		Attempts: attempts,
		OnRetry: func(attempt int, err error) {
			c.logger.Info("repaired rejected upload", "platform", publish.CurseForge, "file", sub.File.FileName(), "attempt", attempt, "err", err)
		},
	}

	return httputil.Execute(ctx, policy, sub, func(ctx context.Context, s Submission) httputil.Step[Submission, fileResult] {
		id, err := c.postFile(ctx, api, projectID, s)
		if err == nil {
			return httputil.Done[Submission](fileResult{ID: id, Submission: s})
		}
		next, ok := Repair(s, err)
		if !ok {
			return httputil.Fatal[Submission, fileResult](err)
		}
		observability.Publish().OnRepair(ctx, string(publish.CurseForge), repairAction(s, next), err.Error())
		return httputil.Repairable[Submission, fileResult](next, err)
	})
}

func repairAction(before, after Submission) string {
	if len(after.Relations) < len(before.Relations) {
		return "drop-relation"
	}
	return "drop-variant"
}

func (c *Client) postFile(ctx context.Context, api *integrations.Client, projectID string, s Submission) (int, error) {
	form := integrations.NewForm()
	if err := form.AddJSON("metadata", s.metadata()); err != nil {
		return 0, err
	}
	form.AddFile("file", s.File.FileName(), s.File.Path)

	var resp struct {
		ID int `json:"id"`
	}
	url := integrations.JoinURL(c.baseURL, "api", "projects", projectID, "upload-file")
	if err := api.PostMultipart(ctx, url, form, &resp); err != nil {
		return 0, decodeError(err)
	}
	return resp.ID, nil
}

// decodeError replaces a rejected response with its structured *APIError.
// Soft errors (429, 5xx) are left alone so the outer retry sees them.
func decodeError(err error) error {
	he, ok := integrations.AsHTTPError(err)
	if !ok || httputil.IsRetryable(err) {
		return err
	}
	apiErr := &APIError{StatusCode: he.StatusCode}
	if he.Decode(apiErr) != nil || apiErr.Code == 0 {
		return err
	}
	return apiErr
}

func (c *Client) api(token string) *integrations.Client {
	return c.WithHeaders(map[string]string{tokenHeader: token})
}

func (c *Client) fileURL(projectID string, fileID int) string {
	return fmt.Sprintf("%s/%s/files/%d", c.webURL, projectID, fileID)
}
