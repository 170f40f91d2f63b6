package curseforge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/modpublish/pkg/publish"
)

// VersionType classifies a CurseForge game-version type.
type VersionType int

const (
	UnknownType VersionType = iota
	Minecraft
	BukkitPlugin
	Addon
	ModLoader
	Java
	Environment
)

var versionTypeNames = [...]string{
	UnknownType:  "unknown",
	Minecraft:    "minecraft",
	BukkitPlugin: "bukkit",
	Addon:        "addon",
	ModLoader:    "modloader",
	Java:         "java",
	Environment:  "environment",
}

func (t VersionType) String() string {
	if int(t) < len(versionTypeNames) {
		return versionTypeNames[t]
	}
	return "unknown"
}

// ClassifyVersionType maps a version-type slug such as "minecraft-1-20" or
// "bukkit" onto a [VersionType].
func ClassifyVersionType(slug string) VersionType {
	s := strings.ToLower(strings.TrimSpace(slug))
	switch {
	case s == "modloader":
		return ModLoader
	case s == "java":
		return Java
	case s == "environment":
		return Environment
	case strings.HasPrefix(s, "bukkit"):
		return BukkitPlugin
	case strings.Contains(s, "addon"):
		return Addon
	case strings.HasPrefix(s, "minecraft"):
		return Minecraft
	}
	return UnknownType
}

// GameVersionType is an entry of GET /api/game/version-types.
type GameVersionType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameVersion is an entry of GET /api/game/versions.
type GameVersion struct {
	ID     int    `json:"id"`
	TypeID int    `json:"gameVersionTypeID"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
}

// VariantSet is an ordered list of identifier groups. Each group describes
// the file's compatibility under one project-kind schema; one group is
// submitted per attempt.
type VariantSet [][]int

// First returns the group to submit next, or nil for an empty set.
func (v VariantSet) First() []int {
	if len(v) == 0 {
		return nil
	}
	return v[0]
}

// Relation is a project relation of an uploaded file.
type Relation struct {
	Slug string `json:"slug"`
	Type string `json:"type"`
}

// Relation types understood by the upload API.
const (
	RelationRequired     = "requiredDependency"
	RelationOptional     = "optionalDependency"
	RelationEmbedded     = "embeddedLibrary"
	RelationIncompatible = "incompatible"
)

// RelationType converts a dependency kind into a CurseForge relation type.
// Unknown kinds convert to "" and are dropped by [publish.Simplify].
func RelationType(k publish.DependencyKind) string {
	switch k {
	case publish.Required:
		return RelationRequired
	case publish.Recommended, publish.Optional:
		return RelationOptional
	case publish.Embedded:
		return RelationEmbedded
	case publish.Conflicting, publish.Incompatible:
		return RelationIncompatible
	}
	return ""
}

// Error codes returned by the upload API that [Repair] knows how to fix.
const (
	ErrInvalidGameVersionID = 1009
	ErrInvalidRelationSlug  = 1018
)

// APIError is the structured error body of the upload API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"errorCode"`
	Message    string `json:"errorMessage"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("curseforge error %d: %s", e.Code, e.Message)
}

var quotedRE = regexp.MustCompile(`['"]([^'"]+)['"]`)

// Value returns the first quoted value of the message, which for
// [ErrInvalidRelationSlug] is the offending slug.
func (e *APIError) Value() string {
	if m := quotedRE.FindStringSubmatch(e.Message); m != nil {
		return m[1]
	}
	return ""
}
