package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

type fakeGitHub struct {
	release  *Release
	created  *createRelease
	deleted  []string
	uploaded map[string]string
	types    map[string]string
}

func (f *fakeGitHub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/owner/repo/releases/tags/v1.0.0":
			if f.release == nil {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(f.release)

		case r.Method == http.MethodPost && r.URL.Path == "/repos/owner/repo/releases":
			var body createRelease
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode release: %v", err)
			}
			f.created = &body
			f.release = &Release{ID: 77, TagName: body.TagName, HTMLURL: "https://github.com/owner/repo/releases/tag/" + body.TagName}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(f.release)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/repos/owner/repo/releases/assets/"):
			f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/repos/owner/repo/releases/assets/"))
			w.WriteHeader(http.StatusNoContent)

		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/repos/owner/repo/releases/"):
			name := r.URL.Query().Get("name")
			data, _ := io.ReadAll(r.Body)
			if f.uploaded == nil {
				f.uploaded = map[string]string{}
				f.types = map[string]string{}
			}
			f.uploaded[name] = string(data)
			f.types[name] = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Asset{ID: int64(100 + len(f.uploaded)), Name: name, BrowserDownloadURL: "https://github.com/owner/repo/releases/download/v1.0.0/" + name})

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func testClient(t *testing.T, fake *fakeGitHub) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)
	return NewClient(cache.NewNullCache(), time.Hour,
		WithBaseURL(server.URL),
		WithUploadURL(server.URL),
		WithHTTPClient(server.Client()),
	)
}

func testRequest(t *testing.T, files ...string) publish.Request {
	t.Helper()
	dir := t.TempDir()
	req := publish.Request{
		ID:        "owner/repo",
		Token:     "gh-token",
		Version:   "1.0.0",
		Tag:       "v1.0.0",
		Name:      "My Mod 1.0.0",
		Changelog: "notes",
		Channel:   publish.Beta,
		Retry:     publish.RetryPolicy{Attempts: 1},
	}
	for _, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("data:"+name), 0o644); err != nil {
			t.Fatal(err)
		}
		req.Files = append(req.Files, publish.NewFile(path))
	}
	return req
}

func TestUploadCreatesRelease(t *testing.T) {
	fake := &fakeGitHub{}
	c := testClient(t, fake)

	report, err := c.Upload(context.Background(), testRequest(t, "mod.jar", "mod.txt"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if fake.created == nil {
		t.Fatal("release was not created")
	}
	if fake.created.TagName != "v1.0.0" || fake.created.Name != "My Mod 1.0.0" || fake.created.Body != "notes" {
		t.Errorf("created = %+v", fake.created)
	}
	if !fake.created.Prerelease {
		t.Error("beta channel should create a pre-release")
	}
	if fake.uploaded["mod.jar"] != "data:mod.jar" {
		t.Errorf("uploaded mod.jar = %q", fake.uploaded["mod.jar"])
	}
	if got := fake.types["mod.jar"]; got != "application/java-archive" {
		t.Errorf("content type = %q", got)
	}
	if got := fake.types["mod.txt"]; !strings.HasPrefix(got, "text/plain") {
		t.Errorf("content type = %q", got)
	}

	if report.ProjectID != "owner/repo" || report.VersionID != "77" {
		t.Errorf("report = %+v", report)
	}
	if report.URL != "https://github.com/owner/repo/releases/tag/v1.0.0" {
		t.Errorf("URL = %q", report.URL)
	}
	if len(report.Files) != 2 || report.Files[0].Name != "mod.jar" || report.Files[0].ID != "101" {
		t.Errorf("files = %+v", report.Files)
	}
}

func TestUploadReplacesExistingAsset(t *testing.T) {
	fake := &fakeGitHub{release: &Release{
		ID:      5,
		TagName: "v1.0.0",
		Assets:  []Asset{{ID: 9, Name: "mod.jar"}, {ID: 10, Name: "other.jar"}},
	}}
	c := testClient(t, fake)

	if _, err := c.Upload(context.Background(), testRequest(t, "mod.jar")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if fake.created != nil {
		t.Error("existing release should be reused")
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "9" {
		t.Errorf("deleted = %v, want [9]", fake.deleted)
	}
}

func TestUploadPrereleaseOverride(t *testing.T) {
	fake := &fakeGitHub{}
	c := testClient(t, fake)

	prerelease := false
	req := testRequest(t, "mod.jar")
	req.Prerelease = &prerelease
	req.Draft = true
	req.Commitish = "main"

	if _, err := c.Upload(context.Background(), req); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if fake.created.Prerelease || !fake.created.Draft || fake.created.TargetCommitish != "main" {
		t.Errorf("created = %+v", fake.created)
	}
}

func TestUploadTagDefaultsToVersion(t *testing.T) {
	fake := &fakeGitHub{}
	c := testClient(t, fake)

	req := testRequest(t, "mod.jar")
	req.Tag = ""
	req.Version = "v1.0.0"
	if _, err := c.Upload(context.Background(), req); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if fake.created.TagName != "v1.0.0" {
		t.Errorf("tag = %q", fake.created.TagName)
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*publish.Request)
		code   errors.Code
	}{
		{"missing token", func(r *publish.Request) { r.Token = "" }, errors.ErrCodeMissingField},
		{"bad repo", func(r *publish.Request) { r.ID = "just-a-name" }, errors.ErrCodeInvalidInput},
		{"missing tag", func(r *publish.Request) { r.Tag, r.Version = "", "" }, errors.ErrCodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGitHub{}
			c := testClient(t, fake)
			req := testRequest(t, "mod.jar")
			tt.mutate(&req)

			_, err := c.Upload(context.Background(), req)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
			if fake.created != nil {
				t.Error("no request should be made")
			}
		})
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{ref: "owner/repo", wantOwner: "owner", wantRepo: "repo"},
		{ref: "my-org/my.mod_1", wantOwner: "my-org", wantRepo: "my.mod_1"},
		{ref: "owner", wantErr: true},
		{ref: "/repo", wantErr: true},
		{ref: "owner/", wantErr: true},
		{ref: "-owner/repo", wantErr: true},
		{ref: "owner/..", wantErr: true},
		{ref: "owner/repo/extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoRef(%q) = %q, %q", tt.ref, owner, repo)
			}
		})
	}
}
