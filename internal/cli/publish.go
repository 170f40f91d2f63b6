package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/config"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/integrations/curseforge"
	"github.com/matzehuels/modpublish/pkg/integrations/github"
	"github.com/matzehuels/modpublish/pkg/integrations/modrinth"
	"github.com/matzehuels/modpublish/pkg/metadata"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// publishOpts holds the flags of the publish command.
type publishOpts struct {
	configPath string
	targets    string
	dryRun     bool
	noMetadata bool

	flags     config.Options
	platforms map[publish.Platform]*config.Options
	featured  bool
	draft     bool
	pre       bool
	notes     bool
	cache     cacheOptions
}

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	opts := publishOpts{platforms: make(map[publish.Platform]*config.Options)}

	cmd := &cobra.Command{
		Use:   "publish [files...]",
		Short: "Upload mod files to Modrinth, CurseForge and GitHub",
		Long: `Upload one version of a mod to every target platform.

Files may be glob patterns; the first file is the primary file. Without
arguments build/libs/*.jar is used, skipping -sources, -dev and -javadoc jars.

Each option is looked up in the platform flags (e.g. --modrinth-id), the
shared flags, the platform section of the config file, its defaults section,
and finally the metadata embedded in the primary jar.`,
		Example: `  # Publish using .modpublish.yml
  modpublish publish

  # Publish a beta to Modrinth only
  modpublish publish build/libs/mymod-1.2.0.jar -t modrinth --channel beta

  # Show the resolved requests without uploading
  modpublish publish --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyChanged(cmd)
			return c.runPublish(cmd.Context(), args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "config file")
	f.StringVarP(&opts.targets, "target", "t", "", "comma-separated platforms (modrinth,curseforge,github)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "resolve and print requests without uploading")
	f.BoolVar(&opts.noMetadata, "no-metadata", false, "ignore metadata embedded in the primary file")

	o := &opts.flags
	f.StringVar(&o.Name, "name", "", "version display name (defaults to the version)")
	f.StringVar(&o.Version, "version", "", "version number")
	f.StringVar(&o.Channel, "channel", "", "release channel: alpha, beta or release (inferred from the version when unset)")
	f.StringVar(&o.Changelog, "changelog", "", "changelog text")
	f.StringVar(&o.ChangelogFile, "changelog-file", "", "read the changelog from a file")
	f.StringSliceVar(&o.Loaders, "loaders", nil, "mod loaders, e.g. fabric,quilt")
	f.StringSliceVar(&o.GameVersions, "game-versions", nil, "game versions, e.g. 1.20.1")
	f.StringSliceVar(&o.Java, "java", nil, "Java versions, e.g. 17")
	f.StringArrayVarP(&o.Dependencies, "dependency", "d", nil, "dependency in the form id@kind(platform:alias)#(ignore:platform); repeatable")
	f.IntVar(&o.RetryAttempts, "retry-attempts", 0, "upload attempts per platform")
	f.DurationVar(&o.RetryDelay, "retry-delay", 0, "delay between upload attempts")
	f.StringVar(&o.UnfeatureMode, "unfeature-mode", "", "Modrinth: which older featured versions to unfeature (none, any, subset, intersection or flags)")
	f.StringVar(&o.Tag, "tag", "", "GitHub: release tag (defaults to the version)")
	f.StringVar(&o.Commitish, "commitish", "", "GitHub: target commitish for a new tag")
	f.BoolVar(&opts.featured, "featured", true, "Modrinth: feature the new version")
	f.BoolVar(&opts.draft, "draft", false, "GitHub: create the release as a draft")
	f.BoolVar(&opts.pre, "prerelease", false, "GitHub: mark the release as a prerelease")
	f.BoolVar(&opts.notes, "generate-changelog", false, "GitHub: let GitHub generate release notes")

	for _, p := range publish.Platforms() {
		po := &config.Options{}
		opts.platforms[p] = po
		idHelp := "project id or slug"
		if p == publish.GitHub {
			idHelp = "repository as owner/repo"
		}
		f.StringVar(&po.ID, string(p)+"-id", "", p.String()+": "+idHelp)
		f.StringVar(&po.Token, string(p)+"-token", "", p.String()+": API token (env "+config.TokenEnv[p]+")")
	}

	opts.cache.register(cmd)
	registerPublishCompletions(cmd)
	return cmd
}

// applyChanged copies boolean flags into the option layer only when they
// were given, so that unset flags don't override the config file.
func (o *publishOpts) applyChanged(cmd *cobra.Command) {
	set := func(name string, v bool) *bool {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	o.flags.Featured = set("featured", o.featured)
	o.flags.Draft = set("draft", o.draft)
	o.flags.Prerelease = set("prerelease", o.pre)
	o.flags.GenerateChangelog = set("generate-changelog", o.notes)
}

func (c *CLI) runPublish(ctx context.Context, args []string, opts *publishOpts) error {
	logger, runID := runLogger(c.Logger)
	ctx = withLogger(ctx, logger)
	prog := newProgress(logger)
	registerHooks()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	var md *metadata.Metadata
	if !opts.noMetadata {
		md, err = metadata.NewJarReader().Read(ctx, files[0].Path)
		if err != nil {
			logger.Warn("could not read mod metadata", "file", files[0].Path, "err", err)
		} else if md != nil {
			logger.Debug("read mod metadata", "id", md.ID, "version", md.Version, "loaders", md.Loaders)
		}
	}

	resolver := &config.Resolver{
		Config:    cfg,
		Flags:     opts.flags,
		Platforms: make(map[publish.Platform]config.Options),
		Metadata:  md,
	}
	for p, o := range opts.platforms {
		resolver.Platforms[p] = *o
	}

	targets, err := selectTargets(opts.targets, cfg, resolver)
	if err != nil {
		return err
	}
	reqs, err := resolver.Requests(targets, files)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, p := range targets {
			printRequest(p, reqs[p])
		}
		return nil
	}

	backend, err := opts.cache.open(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	logger.Info("publishing", "run", runID, "files", len(files), "targets", targets)
	publisher := publish.NewPublisher(logger, newUploaders(backend, logger, targets)...)
	results, err := publisher.Publish(ctx, reqs)

	printNewline()
	for _, r := range results {
		printResult(r)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Published to %d platform(s)", len(results)))
	return nil
}

// selectTargets returns the platforms named by the flag, or by the config
// file, or else every platform a project id can be resolved for.
func selectTargets(flag string, cfg *config.Config, r *config.Resolver) ([]publish.Platform, error) {
	if flag != "" {
		return publish.ParsePlatforms(flag)
	}
	if len(cfg.Targets) > 0 {
		return publish.ParsePlatforms(strings.Join(cfg.Targets, ","))
	}
	var out []publish.Platform
	for _, p := range publish.Platforms() {
		if r.Options(p).ID != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeMissingField, "no target platform: pass --target or set a project id")
	}
	return out, nil
}

// newUploaders builds a client for each target sharing one cache backend.
func newUploaders(backend cache.Cache, logger *log.Logger, targets []publish.Platform) []publish.Uploader {
	var out []publish.Uploader
	for _, p := range targets {
		switch p {
		case publish.Modrinth:
			out = append(out, modrinth.NewClient(backend, referenceTTL, modrinth.WithLogger(logger)))
		case publish.CurseForge:
			out = append(out, curseforge.NewClient(backend, referenceTTL, curseforge.WithLogger(logger)))
		case publish.GitHub:
			out = append(out, github.NewClient(backend, referenceTTL, github.WithLogger(logger)))
		}
	}
	return out
}
