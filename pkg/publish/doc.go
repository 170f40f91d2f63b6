// Package publish defines the platform-agnostic publishing model.
//
// A [Request] describes one version of a mod: its files, version string,
// channel, supported loaders and game versions, and its dependencies. Each
// platform package (modrinth, curseforge, github) implements [Uploader] and
// reconciles the request against its own data model, producing a uniform
// [Report].
//
// # Dependencies
//
// [Dependency] values are platform-agnostic. [Simplify] turns them into
// (identifier, kind) pairs for one platform, honouring per-platform aliases
// and ignore lists:
//
//	deps := publish.Simplify(req.Dependencies, publish.Modrinth, modrinth.DependencyType)
//
// In configuration files dependencies use a compact string form parsed by
// [ParseDependency]:
//
//	fabric-api@required(curseforge:fabric-api)#(ignore:github)
//
// # Publishing
//
// [Publisher] runs a set of per-platform requests one platform after
// another. A failing platform does not stop the others; all errors are
// joined into the returned error.
package publish
