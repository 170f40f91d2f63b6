// Package integrations provides the HTTP plumbing shared by the platform
// clients.
//
// # Overview
//
// Each publishing platform has its own subpackage:
//
//   - [modrinth]: Modrinth API v2
//   - [curseforge]: CurseForge upload API
//   - [github]: GitHub Releases
//
// # Client Pattern
//
// Platform clients embed [*Client] and follow the same shape:
//
//	client := modrinth.NewClient(backend, 24*time.Hour, modrinth.WithLogger(logger))
//	report, err := client.Upload(ctx, req)
//
// Tokens travel with the request, not the client; [Client.WithHeaders]
// returns a copy carrying the authorization header while sharing the HTTP
// client and cache.
//
// [Client] handles:
//   - JSON, multipart ([Form]) and raw bodies
//   - Reference-data caching through [cache.Cache] ([Client.Cached])
//   - Typed failures: non-2xx responses become [*HTTPError], which unwraps
//     to [ErrNotFound], [ErrUnauthorized], [ErrRejected] or [ErrNetwork].
//     429 and 5xx responses are additionally marked retryable for
//     [httputil.Retry].
//
// [modrinth]: github.com/matzehuels/modpublish/pkg/integrations/modrinth
// [curseforge]: github.com/matzehuels/modpublish/pkg/integrations/curseforge
// [github]: github.com/matzehuels/modpublish/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/modpublish/pkg/cache.Cache
// [httputil.Retry]: github.com/matzehuels/modpublish/pkg/httputil.Retry
package integrations
