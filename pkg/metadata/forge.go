package metadata

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

type forgeDependency struct {
	ModID        string `toml:"modId"`
	Mandatory    *bool  `toml:"mandatory"`
	Type         string `toml:"type"`
	VersionRange string `toml:"versionRange"`
}

type forgeFile struct {
	Mods []struct {
		ModID       string `toml:"modId"`
		Version     string `toml:"version"`
		DisplayName string `toml:"displayName"`
	} `toml:"mods"`
	Dependencies map[string][]forgeDependency `toml:"dependencies"`
	ModPublish   *custom                      `toml:"modpublish"`
}

// forge reads META-INF/mods.toml and META-INF/neoforge.mods.toml. Both
// share a layout; Forge marks dependencies with "mandatory" while
// NeoForge uses "type".
type forge struct {
	path   string
	loader string
}

func (f forge) Path() string { return f.path }

func (f forge) Parse(data []byte) (*Metadata, error) {
	var file forgeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", f.path)
	}
	if len(file.Mods) == 0 {
		return nil, nil
	}

	mod := file.Mods[0]
	md := &Metadata{
		ID:      mod.ModID,
		Name:    mod.DisplayName,
		Version: mod.Version,
		Loaders: []string{f.loader},
	}
	for _, d := range file.Dependencies[mod.ModID] {
		kind, ok := d.kind()
		if !ok {
			continue
		}
		md.addDependency(d.ModID, kind, d.VersionRange)
	}
	if err := file.ModPublish.apply(md); err != nil {
		return nil, err
	}
	return md, nil
}

func (d forgeDependency) kind() (publish.DependencyKind, bool) {
	if d.Type != "" {
		switch strings.ToLower(d.Type) {
		case "required":
			return publish.Required, true
		case "optional":
			return publish.Optional, true
		case "incompatible":
			return publish.Incompatible, true
		case "discouraged":
			return publish.Conflicting, true
		}
		return publish.UnknownKind, false
	}
	if d.Mandatory != nil && !*d.Mandatory {
		return publish.Optional, true
	}
	return publish.Required, true
}
