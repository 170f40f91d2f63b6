// Package curseforge uploads files through the CurseForge upload API.
//
// CurseForge has no explicit project-type field. Whether a file is a mod, a
// plugin, a pack or an addon is inferred from which game-version
// identifiers are attached to it. [ResolveVariants] therefore builds one
// candidate identifier group per project kind, most likely first, and the
// upload loop falls through the groups whenever CurseForge rejects one (see
// [Repair]).
//
// The game-version table is fetched once per process (and cached through
// [cache.Cache]) and shared by all uploads.
package curseforge
