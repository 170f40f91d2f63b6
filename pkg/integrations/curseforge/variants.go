package curseforge

import (
	"slices"

	"github.com/matzehuels/modpublish/pkg/publish"
)

// VersionTable is the game-version reference data of CurseForge, with
// every version classified by the type it belongs to. It is immutable once
// built and safe for concurrent reads.
type VersionTable struct {
	byType map[VersionType][]GameVersion
}

// NewVersionTable classifies versions by the slug of their type.
// Versions of unknown types are kept under [UnknownType].
func NewVersionTable(types []GameVersionType, versions []GameVersion) *VersionTable {
	kinds := make(map[int]VersionType, len(types))
	for _, t := range types {
		kinds[t.ID] = ClassifyVersionType(t.Slug)
	}
	t := &VersionTable{byType: make(map[VersionType][]GameVersion)}
	for _, v := range versions {
		kind := kinds[v.TypeID]
		t.byType[kind] = append(t.byType[kind], v)
	}
	return t
}

// Versions returns the versions of type kind.
func (t *VersionTable) Versions(kind VersionType) []GameVersion {
	if t == nil {
		return nil
	}
	return t.byType[kind]
}

// Len returns the number of classified versions.
func (t *VersionTable) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, vs := range t.byType {
		n += len(vs)
	}
	return n
}

// Lookup returns the version with the given id.
func (t *VersionTable) Lookup(id int) (GameVersion, VersionType, bool) {
	if t == nil {
		return GameVersion{}, UnknownType, false
	}
	for kind, vs := range t.byType {
		for _, v := range vs {
			if v.ID == id {
				return v, kind, true
			}
		}
	}
	return GameVersion{}, UnknownType, false
}

// find resolves each requested value against the versions of kind. The
// comparers are tried in order for each value; the first one with a match
// wins. Ids are returned in request order without duplicates.
func (t *VersionTable) find(kind VersionType, requested []string, comparers ...nameComparer) []int {
	versions := t.Versions(kind)
	var ids []int
	for _, r := range requested {
		for _, cmp := range comparers {
			matched := false
			for _, v := range versions {
				if cmp(r, v.Name) || (v.Slug != "" && cmp(r, v.Slug)) {
					matched = true
					if !slices.Contains(ids, v.ID) {
						ids = append(ids, v.ID)
					}
				}
			}
			if matched {
				break
			}
		}
	}
	return ids
}

// ResolveVariants maps a capability set onto CurseForge identifier groups.
//
// The groups, in order, are:
//
//	mod:    game versions + loaders + Java versions
//	plugin: Bukkit game versions (matched by major.minor)
//	pack:   game versions only
//	addon:  addon game versions (matched by major.minor)
//
// When no loader matched, the plugin group is moved in front of the mod
// group. Empty groups are dropped; if all groups are empty a single empty
// group is returned so that an upload is still attempted.
func ResolveVariants(table *VersionTable, caps publish.Capabilities) VariantSet {
	gameIDs := table.find(Minecraft, caps.GameVersions, snapshotCompare, exactCompare)
	loaderIDs := table.find(ModLoader, caps.Loaders, exactCompare)
	javaIDs := table.find(Java, caps.JavaVersions, javaCompare)
	pluginIDs := table.find(BukkitPlugin, caps.GameVersions, majorMinorCompare)
	addonIDs := table.find(Addon, caps.GameVersions, majorMinorCompare)

	mod := slices.Concat(gameIDs, loaderIDs, javaIDs)
	pack := slices.Clone(gameIDs)

	groups := [][]int{mod, pluginIDs, pack, addonIDs}
	if len(loaderIDs) == 0 {
		groups[0], groups[1] = groups[1], groups[0]
	}

	var set VariantSet
	for _, g := range groups {
		if len(g) > 0 {
			set = append(set, g)
		}
	}
	if len(set) == 0 {
		return VariantSet{{}}
	}
	return set
}
