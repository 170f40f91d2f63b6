// Package github publishes files as GitHub release assets.
//
// # Overview
//
// The client looks up the release for a tag (https://api.github.com),
// creates it when it doesn't exist yet, and uploads every file of the
// request as an asset through the uploads host. An asset that already
// exists under the same name is replaced.
//
// # Usage
//
//	client := github.NewClient(cache.NewNullCache(), time.Hour)
//	report, err := client.Upload(ctx, publish.Request{
//	    ID:      "owner/repo",
//	    Token:   os.Getenv("GITHUB_TOKEN"),
//	    Version: "1.2.0",
//	    Files:   []publish.File{publish.NewFile("build/libs/mod-1.2.0.jar")},
//	})
//
// # Tags and releases
//
// The release tag is [publish.Request.Tag], or the version when no tag is
// set. New releases are marked as pre-releases when the request's channel
// is not a release, unless [publish.Request.Prerelease] says otherwise.
//
// Loaders, game versions and dependencies have no meaning on GitHub and
// are ignored.
package github
