package metadata

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// Ids handled as capabilities rather than dependencies.
const (
	gameID   = "minecraft"
	javaID   = "java"
	fabricID = "fabricloader"
	quiltID  = "quilt_loader"
)

// loaderAliases maps mod ids that differ between a loader's metadata and
// the platforms' project slugs.
var loaderAliases = map[string]string{
	"fabric":                   "fabric-api",
	"quilted_fabric_api":       "qsl",
	"quilt_standard_libraries": "qsl",
}

// constraints decodes a fabric.mod.json version constraint, which is either
// a single string or an array of alternatives.
type constraints []string

func (c *constraints) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*c = constraints{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

// custom is the "modpublish" block a mod may embed in its descriptor to
// declare project ids and extra dependencies.
type custom struct {
	Modrinth     string   `json:"modrinth" toml:"modrinth"`
	CurseForge   string   `json:"curseforge" toml:"curseforge"`
	GitHub       string   `json:"github" toml:"github"`
	Dependencies []string `json:"dependencies" toml:"dependencies"`
}

func (c *custom) apply(md *Metadata) error {
	if c == nil {
		return nil
	}
	ids := map[publish.Platform]string{
		publish.Modrinth:   c.Modrinth,
		publish.CurseForge: c.CurseForge,
		publish.GitHub:     c.GitHub,
	}
	for p, id := range ids {
		if id == "" {
			continue
		}
		if md.ProjectIDs == nil {
			md.ProjectIDs = make(map[publish.Platform]string)
		}
		md.ProjectIDs[p] = id
	}
	deps, err := publish.ParseDependencies(c.Dependencies)
	if err != nil {
		return err
	}
	// Declared dependencies override the ones derived from the descriptor.
	for _, d := range deps {
		replaced := false
		for i := range md.Dependencies {
			if strings.EqualFold(md.Dependencies[i].ID, d.ID) {
				md.Dependencies[i] = d
				replaced = true
			}
		}
		if !replaced {
			md.Dependencies = append(md.Dependencies, d)
		}
	}
	return nil
}

type fabricFile struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Version    string                 `json:"version"`
	Depends    map[string]constraints `json:"depends"`
	Recommends map[string]constraints `json:"recommends"`
	Suggests   map[string]constraints `json:"suggests"`
	Breaks     map[string]constraints `json:"breaks"`
	Conflicts  map[string]constraints `json:"conflicts"`
	Custom     struct {
		ModPublish *custom `json:"modpublish"`
	} `json:"custom"`
}

// fabric reads fabric.mod.json.
type fabric struct{}

func (fabric) Path() string { return "fabric.mod.json" }

func (f fabric) Parse(data []byte) (*Metadata, error) {
	var file fabricFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", f.Path())
	}

	md := &Metadata{
		ID:      file.ID,
		Name:    file.Name,
		Version: file.Version,
		Loaders: []string{"fabric"},
	}
	groups := []struct {
		deps map[string]constraints
		kind publish.DependencyKind
	}{
		{file.Depends, publish.Required},
		{file.Recommends, publish.Recommended},
		{file.Suggests, publish.Optional},
		{file.Breaks, publish.Incompatible},
		{file.Conflicts, publish.Conflicting},
	}
	for _, g := range groups {
		for _, id := range sortedKeys(g.deps) {
			md.addDependency(id, g.kind, g.deps[id]...)
		}
	}
	if err := file.Custom.ModPublish.apply(md); err != nil {
		return nil, err
	}
	return md, nil
}

// addDependency records a descriptor dependency, turning the game, Java
// and loader ids into capabilities. Only required game and Java
// constraints contribute versions.
func (m *Metadata) addDependency(id string, kind publish.DependencyKind, versions ...string) {
	switch id {
	case gameID:
		if kind != publish.Required {
			return
		}
		for _, v := range versions {
			m.GameVersions = union(m.GameVersions, []string{lowerBound(v)})
		}
	case javaID:
		if kind != publish.Required {
			return
		}
		for _, v := range versions {
			m.JavaVersions = union(m.JavaVersions, []string{javaVersion(v)})
		}
	case fabricID, quiltID, "forge", "neoforge":
	default:
		if alias, ok := loaderAliases[id]; ok {
			id = alias
		}
		m.merge(&Metadata{Dependencies: []publish.Dependency{{ID: id, Kind: kind}}})
	}
}
