package modrinth

import "github.com/matzehuels/modpublish/pkg/publish"

// Project is the subset of GET /project/{id} the uploader needs.
type Project struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	ProjectType string `json:"project_type"`
}

// Version is a published version.
type Version struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	Name          string        `json:"name"`
	VersionNumber string        `json:"version_number"`
	VersionType   string        `json:"version_type"`
	Featured      bool          `json:"featured"`
	GameVersions  []string      `json:"game_versions"`
	Loaders       []string      `json:"loaders"`
	Files         []VersionFile `json:"files"`
}

// VersionFile is a file of a published version.
type VersionFile struct {
	URL      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Hashes   map[string]string `json:"hashes"`
}

// Unfeaturable returns the fields of v the unfeature decision looks at.
func (v Version) Unfeaturable() UnfeaturableVersion {
	return UnfeaturableVersion{
		ID:           v.ID,
		ProjectID:    v.ProjectID,
		GameVersions: v.GameVersions,
		Channel:      publish.Channel(v.VersionType),
		Loaders:      v.Loaders,
	}
}

// LoaderTag is an entry of GET /tag/loader.
type LoaderTag struct {
	Name                  string   `json:"name"`
	SupportedProjectTypes []string `json:"supported_project_types"`
}

// Dependency types understood by POST /version.
const (
	DependencyRequired     = "required"
	DependencyOptional     = "optional"
	DependencyEmbedded     = "embedded"
	DependencyIncompatible = "incompatible"
)

// DependencyType converts a dependency kind into a Modrinth dependency type.
// Unknown kinds convert to "" and are dropped by [publish.Simplify].
func DependencyType(k publish.DependencyKind) string {
	switch k {
	case publish.Required:
		return DependencyRequired
	case publish.Recommended, publish.Optional:
		return DependencyOptional
	case publish.Embedded:
		return DependencyEmbedded
	case publish.Conflicting, publish.Incompatible:
		return DependencyIncompatible
	}
	return ""
}

type versionDependency struct {
	ProjectID      string `json:"project_id"`
	DependencyType string `json:"dependency_type"`
}

// createVersion is the "data" part of POST /version.
type createVersion struct {
	Name          string              `json:"name"`
	VersionNumber string              `json:"version_number"`
	Changelog     string              `json:"changelog,omitempty"`
	Dependencies  []versionDependency `json:"dependencies"`
	GameVersions  []string            `json:"game_versions"`
	VersionType   string              `json:"version_type"`
	Loaders       []string            `json:"loaders"`
	Featured      bool                `json:"featured"`
	ProjectID     string              `json:"project_id"`
	FileParts     []string            `json:"file_parts"`
	PrimaryFile   string              `json:"primary_file,omitempty"`
}
