package config

import (
	"os"
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/metadata"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// TokenEnv maps each platform to the environment variable its token
// falls back to.
var TokenEnv = map[publish.Platform]string{
	publish.Modrinth:   "MODRINTH_TOKEN",
	publish.CurseForge: "CURSEFORGE_TOKEN",
	publish.GitHub:     "GITHUB_TOKEN",
}

// FirstNonEmpty returns the first value that is not the zero value.
func FirstNonEmpty[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Merge combines option layers field by field. Earlier layers win.
func Merge(layers ...Options) Options {
	pick := func(f func(Options) string) string {
		vals := make([]string, len(layers))
		for i, l := range layers {
			vals[i] = f(l)
		}
		return FirstNonEmpty(vals...)
	}
	list := func(f func(Options) []string) []string {
		vals := make([][]string, len(layers))
		for i, l := range layers {
			vals[i] = f(l)
		}
		return firstList(vals...)
	}
	flag := func(f func(Options) *bool) *bool {
		vals := make([]*bool, len(layers))
		for i, l := range layers {
			vals[i] = f(l)
		}
		return firstBool(vals...)
	}

	var out Options
	out.ID = pick(func(o Options) string { return o.ID })
	out.Token = pick(func(o Options) string { return o.Token })
	out.Name = pick(func(o Options) string { return o.Name })
	out.Version = pick(func(o Options) string { return o.Version })
	out.Channel = pick(func(o Options) string { return o.Channel })
	out.Changelog = pick(func(o Options) string { return o.Changelog })
	out.ChangelogFile = pick(func(o Options) string { return o.ChangelogFile })
	out.UnfeatureMode = pick(func(o Options) string { return o.UnfeatureMode })
	out.Tag = pick(func(o Options) string { return o.Tag })
	out.Commitish = pick(func(o Options) string { return o.Commitish })
	out.Loaders = list(func(o Options) []string { return o.Loaders })
	out.GameVersions = list(func(o Options) []string { return o.GameVersions })
	out.Java = list(func(o Options) []string { return o.Java })
	out.Dependencies = list(func(o Options) []string { return o.Dependencies })
	out.Featured = flag(func(o Options) *bool { return o.Featured })
	out.Draft = flag(func(o Options) *bool { return o.Draft })
	out.Prerelease = flag(func(o Options) *bool { return o.Prerelease })
	out.GenerateChangelog = flag(func(o Options) *bool { return o.GenerateChangelog })
	for _, l := range layers {
		out.RetryAttempts = FirstNonEmpty(out.RetryAttempts, l.RetryAttempts)
		out.RetryDelay = FirstNonEmpty(out.RetryDelay, l.RetryDelay)
	}
	return out
}

// FromMetadata converts mod metadata into the lowest option layer for
// platform.
func FromMetadata(md *metadata.Metadata, platform publish.Platform) Options {
	if md == nil {
		return Options{}
	}
	o := Options{
		ID:           md.ProjectIDs[platform],
		Name:         md.Name,
		Version:      md.Version,
		Loaders:      md.Loaders,
		GameVersions: md.GameVersions,
		Java:         md.JavaVersions,
	}
	for _, d := range md.Dependencies {
		o.Dependencies = append(o.Dependencies, d.String())
	}
	return o
}

// Resolver builds publish requests from flags, the config file and file
// metadata.
type Resolver struct {
	Config *Config
	Flags  Options

	// Platforms holds per-platform flag overrides, e.g. --modrinth-id.
	Platforms map[publish.Platform]Options

	Metadata *metadata.Metadata

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Options returns the merged option set for platform.
func (r *Resolver) Options(platform publish.Platform) Options {
	cfg := r.Config
	if cfg == nil {
		cfg = &Config{}
	}
	return Merge(
		r.Platforms[platform],
		r.Flags,
		cfg.Platform(platform),
		cfg.Defaults,
		FromMetadata(r.Metadata, platform),
	)
}

// Request builds the publish request for platform. Files are shared by
// all platforms.
func (r *Resolver) Request(platform publish.Platform, files []publish.File) (publish.Request, error) {
	o := r.Options(platform)
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	readFile := r.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	req := publish.Request{
		ID:            o.ID,
		Token:         FirstNonEmpty(o.Token, getenv(TokenEnv[platform])),
		Files:         files,
		Name:          o.Name,
		Version:       o.Version,
		Changelog:     o.Changelog,
		Loaders:       normalize(o.Loaders),
		GameVersions:  o.GameVersions,
		JavaVersions:  o.Java,
		Retry:         publish.RetryPolicy{Attempts: o.RetryAttempts, Delay: o.RetryDelay},
		Featured:      o.Featured,
		UnfeatureMode: o.UnfeatureMode,
		Tag:           o.Tag,
		Commitish:     o.Commitish,
		Draft:         o.Draft != nil && *o.Draft,
		Prerelease:    o.Prerelease,
		GenerateNotes: o.GenerateChangelog != nil && *o.GenerateChangelog,
	}
	if req.Name == "" {
		req.Name = req.Version
	}

	if o.Channel != "" {
		ch, err := publish.ParseChannel(o.Channel)
		if err != nil {
			return publish.Request{}, err
		}
		req.Channel = ch
	}

	if req.Changelog == "" && o.ChangelogFile != "" {
		data, err := readFile(o.ChangelogFile)
		if err != nil {
			return publish.Request{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s: read changelog %s", platform, o.ChangelogFile)
		}
		req.Changelog = string(data)
	}

	deps, err := publish.ParseDependencies(o.Dependencies)
	if err != nil {
		return publish.Request{}, err
	}
	req.Dependencies = deps
	return req, nil
}

// Requests builds a request for each platform.
func (r *Resolver) Requests(platforms []publish.Platform, files []publish.File) (map[publish.Platform]publish.Request, error) {
	out := make(map[publish.Platform]publish.Request, len(platforms))
	for _, p := range platforms {
		req, err := r.Request(p, files)
		if err != nil {
			return nil, err
		}
		out[p] = req
	}
	return out, nil
}

func normalize(loaders []string) []string {
	if loaders == nil {
		return nil
	}
	out := make([]string, 0, len(loaders))
	for _, l := range loaders {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}
