package publish

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/httputil"
)

func writeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod-1.0.0.jar")
	require.NoError(t, os.WriteFile(path, []byte("jar"), 0o644))
	return path
}

func TestRequestClone(t *testing.T) {
	featured := true
	req := Request{
		Files:        []File{NewFile("a.jar")},
		Loaders:      []string{"fabric"},
		GameVersions: []string{"1.20.1"},
		Dependencies: []Dependency{{ID: "x", Aliases: map[Platform]string{Modrinth: "y"}}},
		Featured:     &featured,
	}

	c := req.Clone()
	c.Files[0].Name = "b.jar"
	c.Loaders[0] = "forge"
	c.GameVersions = append(c.GameVersions, "1.20.2")
	c.Dependencies[0].Aliases[Modrinth] = "z"
	*c.Featured = false

	assert.Equal(t, "a.jar", req.Files[0].Name)
	assert.Equal(t, []string{"fabric"}, req.Loaders)
	assert.Equal(t, []string{"1.20.1"}, req.GameVersions)
	assert.Equal(t, "y", req.Dependencies[0].Aliases[Modrinth])
	assert.True(t, *req.Featured)
}

func TestRequestCapabilities(t *testing.T) {
	req := Request{Loaders: []string{"fabric"}, GameVersions: []string{"1.19"}, JavaVersions: []string{"17"}}
	caps := req.Capabilities()
	assert.Equal(t, Capabilities{Loaders: []string{"fabric"}, GameVersions: []string{"1.19"}, JavaVersions: []string{"17"}}, caps)
	assert.False(t, caps.IsEmpty())
	assert.True(t, Request{}.Capabilities().IsEmpty())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "mod.jar", File{Path: "build/libs/mod.jar"}.FileName())
	assert.Equal(t, "renamed.jar", File{Path: "build/libs/mod.jar", Name: "renamed.jar"}.FileName())
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{}.Policy(context.Background(), Modrinth, nil)
	assert.Equal(t, DefaultRetry.Attempts, p.Attempts)
	assert.Equal(t, DefaultRetry.Delay, p.Delay)

	p = RetryPolicy{Attempts: 5, Delay: -time.Second}.Policy(context.Background(), Modrinth, nil)
	assert.Equal(t, 5, p.Attempts)
	assert.Zero(t, p.Delay)
	assert.NotNil(t, p.OnRetry)
}

func TestRetryPolicyRetriesSoftErrorsOnly(t *testing.T) {
	p := RetryPolicy{Attempts: 3}.Policy(context.Background(), CurseForge, nil)
	require.NotNil(t, p.Recoverable)
	assert.True(t, p.Recoverable(httputil.Retryable(stderrors.New("503 service unavailable"))))
	assert.False(t, p.Recoverable(stderrors.New("400 bad request")))

	calls := 0
	err := httputil.Retry(context.Background(), p, func() error {
		calls++
		return stderrors.New("400 bad request")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestValidate(t *testing.T) {
	jar := writeJar(t)
	valid := Request{
		ID:           "my-mod",
		Token:        "secret",
		Files:        []File{NewFile(jar)},
		Version:      "1.0.0",
		Loaders:      []string{"fabric"},
		GameVersions: []string{"1.20.1"},
	}
	all := Requirements{Version: true, Loaders: true, GameVersions: true}
	require.NoError(t, Validate(Modrinth, valid, all))

	tests := []struct {
		name   string
		mutate func(*Request)
		need   Requirements
		field  string
		code   errors.Code
	}{
		{"missing id", func(r *Request) { r.ID = "" }, all, "id", errors.ErrCodeMissingField},
		{"missing token", func(r *Request) { r.Token = "" }, all, "token", errors.ErrCodeMissingField},
		{"missing files", func(r *Request) { r.Files = nil }, all, "files", errors.ErrCodeMissingField},
		{"missing version", func(r *Request) { r.Version = "" }, all, "version", errors.ErrCodeMissingField},
		{"missing loaders", func(r *Request) { r.Loaders = nil }, all, "loaders", errors.ErrCodeMissingField},
		{"missing game versions", func(r *Request) { r.GameVersions = nil }, all, "game-versions", errors.ErrCodeMissingField},
		{"file does not exist", func(r *Request) { r.Files = []File{NewFile(jar + ".missing")} }, all, "missing", errors.ErrCodeFileNotFound},
		{"file is a directory", func(r *Request) { r.Files = []File{NewFile(filepath.Dir(jar))} }, all, "directory", errors.ErrCodeInvalidPath},
		{"bad channel", func(r *Request) { r.Channel = "nightly" }, all, "channel", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid.Clone()
			tt.mutate(&r)
			err := Validate(Modrinth, r, tt.need)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Contains(t, err.Error(), "modrinth")
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	r := valid.Clone()
	r.Loaders, r.GameVersions = nil, nil
	assert.NoError(t, Validate(GitHub, r, Requirements{Version: true}))
}
