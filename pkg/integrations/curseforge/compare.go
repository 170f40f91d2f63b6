package curseforge

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

// nameComparer reports whether a requested version matches a platform name.
type nameComparer func(requested, name string) bool

func exactCompare(requested, name string) bool {
	return strings.EqualFold(strings.TrimSpace(requested), strings.TrimSpace(name))
}

var snapshotRE = regexp.MustCompile(`(?i)^(\d+\.\d+(?:\.\d+)?)(?:-?pre\d*|-rc\d*|\s*pre-release\s*\d*|\s*release candidate\s*\d*|-snapshot)$`)

// snapshotCompare matches pre-releases, release candidates and snapshots of
// a version against CurseForge's "X-Snapshot" entries: "1.20-pre1" matches
// "1.20-Snapshot". Plain releases never match.
func snapshotCompare(requested, name string) bool {
	m := snapshotRE.FindStringSubmatch(strings.TrimSpace(requested))
	if m == nil {
		return false
	}
	return strings.EqualFold(m[1]+"-Snapshot", strings.TrimSpace(name))
}

// majorMinorCompare matches versions that agree on major and minor:
// "1.19.2" matches "1.19" and "1.19.4". Names that are not versions never
// match.
func majorMinorCompare(requested, name string) bool {
	a, err := version.NewVersion(strings.TrimSpace(requested))
	if err != nil {
		return false
	}
	b, err := version.NewVersion(strings.TrimSpace(name))
	if err != nil {
		return false
	}
	sa, sb := a.Segments(), b.Segments()
	return sa[0] == sb[0] && sa[1] == sb[1]
}

var javaRE = regexp.MustCompile(`(?i)^(?:java[\s-]*)?(\d+)$`)

// javaCompare matches "17", "Java 17" or "java-17" against CurseForge's
// "Java 17" entries (slug "java-17").
func javaCompare(requested, name string) bool {
	r := javaRE.FindStringSubmatch(strings.TrimSpace(requested))
	n := javaRE.FindStringSubmatch(strings.TrimSpace(name))
	return r != nil && n != nil && r[1] == n[1]
}
