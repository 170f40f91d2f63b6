package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/modpublish/pkg/config"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

func TestSelectTargets(t *testing.T) {
	cfg := &config.Config{Targets: []string{"github", "modrinth"}}
	r := &config.Resolver{Config: &config.Config{CurseForge: config.Options{ID: "394468"}}}

	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want []publish.Platform
	}{
		{"flag", "curseforge,modrinth", cfg, []publish.Platform{publish.CurseForge, publish.Modrinth}},
		{"config", "", cfg, []publish.Platform{publish.GitHub, publish.Modrinth}},
		{"ids", "", &config.Config{}, []publish.Platform{publish.CurseForge}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectTargets(tt.flag, tt.cfg, r)
			if err != nil {
				t.Fatalf("selectTargets() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("selectTargets() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("selectTargets()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	_, err := selectTargets("", &config.Config{}, &config.Resolver{})
	if !errors.Is(err, errors.ErrCodeMissingField) {
		t.Errorf("no ids: error = %v, want MISSING_FIELD", err)
	}
	_, err = selectTargets("hangar", cfg, r)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad flag: error = %v, want INVALID_INPUT", err)
	}
}

func TestPublishCommandBoolFlagsOnlyWhenChanged(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cmd := c.publishCommand()
	if err := cmd.ParseFlags([]string{"--draft"}); err != nil {
		t.Fatal(err)
	}

	opts := publishOpts{draft: true, featured: true}
	opts.applyChanged(cmd)

	if opts.flags.Draft == nil || !*opts.flags.Draft {
		t.Error("--draft should be set")
	}
	if opts.flags.Featured != nil {
		t.Error("--featured was not given and must not override the config")
	}
}

func TestRunPublishDryRun(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "mod-1.0.0.jar")
	touch(t, jar)
	cfgPath := filepath.Join(dir, "modpublish.yml")
	cfg := "modrinth:\n  id: AABBCCDD\n  token: secret\ndefaults:\n  loaders: [fabric]\n  game-versions: [\"1.20.1\"]\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	opts := &publishOpts{
		configPath: cfgPath,
		dryRun:     true,
		flags:      config.Options{Version: "1.0.0"},
		platforms:  map[publish.Platform]*config.Options{},
	}
	if err := c.runPublish(context.Background(), []string{jar}, opts); err != nil {
		t.Fatalf("runPublish(dry run) error: %v", err)
	}

	opts.targets = "hangar"
	if err := c.runPublish(context.Background(), []string{jar}, opts); err == nil {
		t.Error("unknown target should fail")
	}
}
