// Package pkg provides the libraries behind modpublish, a publisher of mod
// files to Modrinth, CurseForge and GitHub Releases.
//
// # Overview
//
// A publish run turns one built mod version into an upload per platform.
// The data flow:
//
//	jar metadata + config file + flags
//	         ↓
//	    [config] (layered options → publish.Request per platform)
//	         ↓
//	    [publish] (platform-agnostic requests, dependencies, reports)
//	         ↓
//	    [integrations/modrinth], [integrations/curseforge], [integrations/github]
//	         ↓
//	    publish.Report per platform
//
// # Quick Start
//
//	md, _ := metadata.NewJarReader().Read(ctx, "build/libs/mymod-1.0.0.jar")
//	r := &config.Resolver{Config: cfg, Metadata: md}
//	reqs, _ := r.Requests(publish.Platforms(), files)
//
//	backend, _ := cache.NewFileCache(dir)
//	p := publish.NewPublisher(logger,
//	    modrinth.NewClient(backend, 24*time.Hour),
//	    curseforge.NewClient(backend, 24*time.Hour),
//	    github.NewClient(backend, 24*time.Hour),
//	)
//	results, err := p.Publish(ctx, reqs)
//
// # Main Packages
//
// ## Domain
//
// [publish] - Requests, channels, the dependency model with per-platform
// aliases and ignore rules, reports and the multi-platform [publish.Publisher].
//
// [metadata] - Reads fabric.mod.json, quilt.mod.json and (neo)forge
// mods.toml from inside a jar.
//
// [config] - The .modpublish.yml file and the option precedence used to
// build requests.
//
// ## Platforms
//
// [integrations] - Shared HTTP client with JSON and multipart bodies,
// reference-data caching and typed HTTP errors. Platform subpackages
// implement [publish.Uploader]:
//
//   - [integrations/modrinth]: version upload and unfeaturing of older versions
//   - [integrations/curseforge]: game-version resolution and the error-repair loop
//   - [integrations/github]: release lookup or creation and asset upload
//
// ## Infrastructure
//
// [httputil] - Bounded fixed-delay retry and explicit repair loops.
//
// [cache] - File, Redis, memory and null backends for reference data.
//
// [errors] - Coded errors shared by validation and platform failures.
//
// [observability] - Hooks for uploads, retries, repairs and unfeaturing.
//
// [buildinfo] - Version information injected at build time.
//
// [publish]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/publish
// [metadata]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/metadata
// [config]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/config
// [integrations]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/integrations
// [integrations/modrinth]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/integrations/modrinth
// [integrations/curseforge]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/integrations/curseforge
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/integrations/github
// [httputil]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/buildinfo
// [publish.Publisher]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/publish#Publisher
// [publish.Uploader]: https://pkg.go.dev/github.com/matzehuels/modpublish/pkg/publish#Uploader
package pkg
