// Package modrinth publishes versions through the Modrinth API v2.
//
// Besides uploading, the client keeps the project's featured versions
// tidy: after a new featured version is published, previous featured
// versions that it supersedes are unfeatured according to an
// [UnfeaturePolicy].
//
// A policy is parsed from a mode string:
//
//	subset                                  // preset
//	game-version-subset | loader-intersection | version-type-any
//
// Each of the three dimensions (game versions, loaders, version type)
// resolves to any, subset or intersection on its own.
package modrinth
