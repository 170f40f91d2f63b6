package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/metadata"
	"github.com/matzehuels/modpublish/pkg/publish"
)

const sampleConfig = `
targets: [modrinth, curseforge]
defaults:
  version: 1.2.0
  loaders: [fabric, quilt]
  game-versions: ["1.20.1"]
  changelog-file: CHANGELOG.md
  retry-attempts: 3
  retry-delay: 5s
  dependencies:
    - fabric-api@required(curseforge:fabric-api)
modrinth:
  id: AABBCCDD
  featured: false
  unfeature-mode: intersection
curseforge:
  id: "394468"
  channel: beta
  game-versions: ["1.20.1", "1.20"]
github:
  id: owner/repo
  draft: true
`

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"modrinth", "curseforge"}, cfg.Targets)
	assert.Equal(t, "1.2.0", cfg.Defaults.Version)
	assert.Equal(t, 5*time.Second, cfg.Defaults.RetryDelay)
	assert.Equal(t, "AABBCCDD", cfg.Platform(publish.Modrinth).ID)
	require.NotNil(t, cfg.Modrinth.Featured)
	assert.False(t, *cfg.Modrinth.Featured)
	assert.Equal(t, "owner/repo", cfg.Platform(publish.GitHub).ID)
	assert.Empty(t, cfg.Platform("unknown").ID)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	_, err = Load("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "defaults: [unclosed"},
		{"channel", "defaults:\n  channel: nightly"},
		{"dependency", "modrinth:\n  dependencies: ['@required']"},
		{"target", "targets: [hangar]"},
		{"retry", "github:\n  retry-attempts: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.body))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty[string]())
	assert.Equal(t, 3, FirstNonEmpty(0, 3, 4))
}

func TestMergePrecedence(t *testing.T) {
	yes, no := true, false
	merged := Merge(
		Options{Version: "2.0.0"},
		Options{Version: "1.0.0", Loaders: []string{"forge"}, Featured: &no},
		Options{Loaders: []string{"fabric"}, Featured: &yes, RetryAttempts: 4},
	)
	assert.Equal(t, "2.0.0", merged.Version)
	assert.Equal(t, []string{"forge"}, merged.Loaders)
	require.NotNil(t, merged.Featured)
	assert.False(t, *merged.Featured)
	assert.Equal(t, 4, merged.RetryAttempts)
}

func TestResolverRequest(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	md := &metadata.Metadata{
		Name:         "Example Mod",
		Version:      "0.9.0",
		Loaders:      []string{"forge"},
		JavaVersions: []string{"Java 17"},
		ProjectIDs:   map[publish.Platform]string{publish.Modrinth: "META0001"},
		Dependencies: []publish.Dependency{{ID: "cloth-config", Kind: publish.Optional}},
	}
	r := &Resolver{
		Config:    cfg,
		Flags:     Options{Version: "1.3.0"},
		Platforms: map[publish.Platform]Options{publish.CurseForge: {Token: "cf-flag"}},
		Metadata:  md,
		Getenv: func(key string) string {
			if key == "MODRINTH_TOKEN" {
				return "mr-env"
			}
			return ""
		},
		ReadFile: func(path string) ([]byte, error) {
			assert.Equal(t, "CHANGELOG.md", path)
			return []byte("- fixed things"), nil
		},
	}
	files := []publish.File{publish.NewFile("build/libs/mod.jar")}

	reqs, err := r.Requests([]publish.Platform{publish.Modrinth, publish.CurseForge}, files)
	require.NoError(t, err)

	mr := reqs[publish.Modrinth]
	assert.Equal(t, "AABBCCDD", mr.ID)
	assert.Equal(t, "mr-env", mr.Token)
	assert.Equal(t, "1.3.0", mr.Version)
	assert.Equal(t, "Example Mod", mr.Name)
	assert.Equal(t, []string{"fabric", "quilt"}, mr.Loaders)
	assert.Equal(t, []string{"Java 17"}, mr.JavaVersions)
	assert.Equal(t, "- fixed things", mr.Changelog)
	assert.Equal(t, "intersection", mr.UnfeatureMode)
	assert.Equal(t, publish.RetryPolicy{Attempts: 3, Delay: 5 * time.Second}, mr.Retry)
	require.Len(t, mr.Dependencies, 1)
	assert.Equal(t, "fabric-api", mr.Dependencies[0].ID)
	assert.Equal(t, files, mr.Files)

	cf := reqs[publish.CurseForge]
	assert.Equal(t, "394468", cf.ID)
	assert.Equal(t, "cf-flag", cf.Token)
	assert.Equal(t, publish.Beta, cf.Channel)
	assert.Equal(t, []string{"1.20.1", "1.20"}, cf.GameVersions)
}

func TestResolverMetadataFallback(t *testing.T) {
	md := &metadata.Metadata{
		Version:      "1.0.0-beta.2",
		Loaders:      []string{"fabric"},
		GameVersions: []string{"1.20.1"},
		ProjectIDs:   map[publish.Platform]string{publish.Modrinth: "META0001"},
		Dependencies: []publish.Dependency{{
			ID:      "fabric-api",
			Kind:    publish.Required,
			Aliases: map[publish.Platform]string{publish.CurseForge: "fabric-api-cf"},
		}},
	}
	r := &Resolver{Metadata: md, Getenv: func(string) string { return "" }}

	req, err := r.Request(publish.Modrinth, nil)
	require.NoError(t, err)
	assert.Equal(t, "META0001", req.ID)
	assert.Equal(t, "1.0.0-beta.2", req.Name)
	assert.Equal(t, publish.Beta, req.EffectiveChannel())
	require.Len(t, req.Dependencies, 1)
	assert.Equal(t, "fabric-api-cf", req.Dependencies[0].ResolveFor(publish.CurseForge))
}

func TestResolverChangelogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGES.md")
	require.NoError(t, os.WriteFile(path, []byte("notes"), 0o644))

	r := &Resolver{Flags: Options{ChangelogFile: path}, Getenv: func(string) string { return "" }}
	req, err := r.Request(publish.GitHub, nil)
	require.NoError(t, err)
	assert.Equal(t, "notes", req.Changelog)

	r.Flags.ChangelogFile = filepath.Join(t.TempDir(), "missing.md")
	_, err = r.Request(publish.GitHub, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestResolverGitHubFlags(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	r := &Resolver{
		Config:   cfg,
		Getenv:   func(key string) string { return key + "-value" },
		ReadFile: func(string) ([]byte, error) { return nil, nil },
	}
	req, err := r.Request(publish.GitHub, nil)
	require.NoError(t, err)
	assert.True(t, req.Draft)
	assert.False(t, req.GenerateNotes)
	assert.Equal(t, "GITHUB_TOKEN-value", req.Token)
}
