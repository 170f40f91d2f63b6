package metadata

import (
	"context"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/modpublish/pkg/publish"
)

// Metadata is the publish-relevant subset of a mod descriptor.
type Metadata struct {
	ID           string
	Name         string
	Version      string
	Loaders      []string
	GameVersions []string
	JavaVersions []string
	Dependencies []publish.Dependency

	// ProjectIDs holds per-platform project identifiers declared by the
	// mod itself, e.g. in the "modpublish" custom block of fabric.mod.json.
	ProjectIDs map[publish.Platform]string
}

// Reader extracts metadata from a file. It returns (nil, nil) when the
// file carries no recognized metadata.
type Reader interface {
	Read(ctx context.Context, path string) (*Metadata, error)
}

// descriptor parses one loader-specific metadata file.
type descriptor interface {
	// Path is the location of the descriptor inside the jar.
	Path() string
	Parse(data []byte) (*Metadata, error)
}

// merge folds other into m. Scalars keep the first non-empty value, lists
// are unioned and dependencies are deduplicated by id.
func (m *Metadata) merge(other *Metadata) {
	if other == nil {
		return
	}
	if m.ID == "" {
		m.ID = other.ID
	}
	if m.Name == "" {
		m.Name = other.Name
	}
	switch {
	case m.Version == "":
		m.Version = other.Version
	case isPlaceholder(m.Version) && other.Version != "" && !isPlaceholder(other.Version):
		m.Version = other.Version
	}
	m.Loaders = union(m.Loaders, other.Loaders)
	m.GameVersions = union(m.GameVersions, other.GameVersions)
	m.JavaVersions = union(m.JavaVersions, other.JavaVersions)
	for _, d := range other.Dependencies {
		if !slices.ContainsFunc(m.Dependencies, func(e publish.Dependency) bool {
			return strings.EqualFold(e.ID, d.ID)
		}) {
			m.Dependencies = append(m.Dependencies, d)
		}
	}
	for p, id := range other.ProjectIDs {
		if m.ProjectIDs == nil {
			m.ProjectIDs = make(map[publish.Platform]string)
		}
		if _, ok := m.ProjectIDs[p]; !ok {
			m.ProjectIDs[p] = id
		}
	}
}

func union(a, b []string) []string {
	for _, s := range b {
		if s != "" && !slices.Contains(a, s) {
			a = append(a, s)
		}
	}
	return a
}

// isPlaceholder reports whether v is an unexpanded build-time property
// such as "${file.jarVersion}" or "${version}".
func isPlaceholder(v string) bool {
	return strings.Contains(v, "${")
}

var versionToken = regexp.MustCompile(`\d+(?:\.\d+)+(?:-[0-9A-Za-z.]+)?|\d+`)

// lowerBound returns the lowest version a constraint admits. It handles
// npm-style ranges ("~1.19.2", ">=1.19 <1.20") and Maven ranges
// ("[1.19,1.20)"). Unbounded constraints return "".
func lowerBound(constraint string) string {
	c := strings.TrimSpace(constraint)
	if c == "" || c == "*" {
		return ""
	}
	if strings.HasPrefix(c, "(,") || strings.HasPrefix(c, "[,") || strings.HasPrefix(c, "<") {
		return ""
	}
	return versionToken.FindString(c)
}

// javaVersion renders a Java constraint as the label used by the
// platforms, e.g. ">=17" becomes "Java 17".
func javaVersion(constraint string) string {
	v := lowerBound(constraint)
	if v == "" {
		return ""
	}
	major, _, _ := strings.Cut(v, ".")
	if major == "1" {
		// 1.8 style
		if _, minor, ok := strings.Cut(v, "."); ok {
			major, _, _ = strings.Cut(minor, ".")
		}
	}
	return "Java " + major
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
