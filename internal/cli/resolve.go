package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modpublish/pkg/config"
	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/integrations/curseforge"
	"github.com/matzehuels/modpublish/pkg/publish"
)

type resolveOpts struct {
	configPath string
	token      string
	caps       publish.Capabilities
	cache      cacheOptions
}

// resolveCommand creates the resolve command, which prints the CurseForge
// game-version groups a publish would try, in order.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the CurseForge game-version ids for a set of capabilities",
		Long: `Resolve loaders, game versions and Java versions against the CurseForge
version table and print the candidate groups in the order an upload tries them.

Values not given as flags are taken from the config file.`,
		Example: `  modpublish resolve --game-versions 1.20.1 --loaders fabric --java 17`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "config file")
	f.StringVar(&opts.token, "token", "", "CurseForge API token (env CURSEFORGE_TOKEN)")
	f.StringSliceVar(&opts.caps.GameVersions, "game-versions", nil, "game versions")
	f.StringSliceVar(&opts.caps.Loaders, "loaders", nil, "mod loaders")
	f.StringSliceVar(&opts.caps.JavaVersions, "java", nil, "Java versions")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, opts *resolveOpts) error {
	logger := c.Logger
	ctx = withLogger(ctx, logger)
	registerHooks()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	r := &config.Resolver{
		Config: cfg,
		Flags: config.Options{
			Token:        opts.token,
			Loaders:      opts.caps.Loaders,
			GameVersions: opts.caps.GameVersions,
			Java:         opts.caps.JavaVersions,
		},
	}
	o := r.Options(publish.CurseForge)
	token := config.FirstNonEmpty(o.Token, os.Getenv(config.TokenEnv[publish.CurseForge]))
	if token == "" {
		return errors.Missing(publish.CurseForge.String(), "token")
	}
	caps := publish.Capabilities{Loaders: o.Loaders, GameVersions: o.GameVersions, JavaVersions: o.Java}
	if caps.IsEmpty() {
		return errors.New(errors.ErrCodeMissingField, "nothing to resolve: pass --game-versions, --loaders or --java")
	}

	backend, err := opts.cache.open(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	client := curseforge.NewClient(backend, referenceTTL, curseforge.WithLogger(logger))

	spinner := newSpinnerWithContext(ctx, "Loading CurseForge versions...")
	spinner.Start()
	table, err := client.VersionTable(ctx, token)
	if err != nil {
		spinner.StopWithError("Failed to load CurseForge versions")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %d CurseForge versions", table.Len()))

	groups := curseforge.ResolveVariants(table, caps)
	var rows [][]string
	for i, group := range groups {
		ids := make([]string, len(group))
		names := make([]string, len(group))
		for j, id := range group {
			ids[j] = strconv.Itoa(id)
			if v, kind, ok := table.Lookup(id); ok {
				names[j] = v.Name + " (" + kind.String() + ")"
			}
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), strings.Join(ids, ", "), strings.Join(names, ", ")})
	}
	fmt.Println(renderTable([]string{"#", "IDs", "Versions"}, rows))
	if len(groups) == 1 && len(groups[0]) == 0 {
		printWarning("no CurseForge version matched")
	}
	return nil
}
