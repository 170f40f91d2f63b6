package publish

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
)

// DependencyKind is the platform-agnostic relationship of a dependency.
type DependencyKind int

const (
	UnknownKind DependencyKind = iota
	Required
	Recommended
	Embedded
	Optional
	Conflicting
	Incompatible
)

var kindNames = map[DependencyKind]string{
	Required:     "required",
	Recommended:  "recommended",
	Embedded:     "embedded",
	Optional:     "optional",
	Conflicting:  "conflicting",
	Incompatible: "incompatible",
}

var kindAliases = map[string]DependencyKind{
	"required":     Required,
	"depends":      Required,
	"recommended":  Recommended,
	"suggests":     Recommended,
	"embedded":     Embedded,
	"includes":     Embedded,
	"optional":     Optional,
	"conflicting":  Conflicting,
	"conflicts":    Conflicting,
	"incompatible": Incompatible,
	"breaks":       Incompatible,
}

func (k DependencyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseDependencyKind parses a kind name or one of the loader-specific
// aliases (depends, suggests, includes, conflicts, breaks).
func ParseDependencyKind(s string) (DependencyKind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return UnknownKind, errors.New(errors.ErrCodeInvalidDependency, "unknown dependency kind %q", s)
}

// Dependency is a platform-agnostic dependency on another project.
type Dependency struct {
	ID        string
	Kind      DependencyKind
	IgnoreAll bool
	Ignore    map[Platform]bool
	Aliases   map[Platform]string
}

// IsIgnored reports whether d must not be sent to platform.
func (d Dependency) IsIgnored(platform Platform) bool {
	return d.IgnoreAll || d.Ignore[platform]
}

// ResolveFor returns the identifier of d on platform: its alias when one
// is set, otherwise its ID.
func (d Dependency) ResolveFor(platform Platform) string {
	if alias := d.Aliases[platform]; alias != "" {
		return alias
	}
	return d.ID
}

// Clone returns a deep copy of d.
func (d Dependency) Clone() Dependency {
	d.Ignore = maps.Clone(d.Ignore)
	d.Aliases = maps.Clone(d.Aliases)
	return d
}

// String renders d in the compact form accepted by [ParseDependency].
func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.ID)
	b.WriteByte('@')
	b.WriteString(d.Kind.String())

	if len(d.Aliases) > 0 {
		keys := slices.Sorted(maps.Keys(d.Aliases))
		parts := make([]string, 0, len(keys))
		for _, p := range keys {
			parts = append(parts, string(p)+":"+d.Aliases[p])
		}
		b.WriteString("(" + strings.Join(parts, ",") + ")")
	}

	switch {
	case d.IgnoreAll:
		b.WriteString("#(ignore)")
	case len(d.Ignore) > 0:
		var ignored []string
		for p, ok := range d.Ignore {
			if ok {
				ignored = append(ignored, string(p))
			}
		}
		slices.Sort(ignored)
		if len(ignored) > 0 {
			b.WriteString("#(ignore:" + strings.Join(ignored, ",") + ")")
		}
	}
	return b.String()
}

// ParseDependency parses the compact dependency form
//
//	id[@kind][(platform:alias,...)][#(ignore[:platform,...])]
//
// The kind defaults to required. "#(ignore)" without platforms ignores the
// dependency everywhere.
func ParseDependency(s string) (Dependency, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Dependency{}, errors.New(errors.ErrCodeInvalidDependency, "empty dependency")
	}
	invalid := func(format string, args ...any) (Dependency, error) {
		return Dependency{}, errors.New(errors.ErrCodeInvalidDependency, "dependency %q: "+format, append([]any{raw}, args...)...)
	}

	dep := Dependency{Kind: Required}

	body, ignore, hasIgnore := strings.Cut(raw, "#")
	if hasIgnore {
		inner, ok := parens(ignore)
		if !ok {
			return invalid("malformed ignore block %q", ignore)
		}
		name, platforms, _ := strings.Cut(inner, ":")
		if strings.TrimSpace(name) != "ignore" {
			return invalid("unknown block %q", name)
		}
		if strings.TrimSpace(platforms) == "" {
			dep.IgnoreAll = true
		} else {
			dep.Ignore = make(map[Platform]bool)
			for _, p := range strings.Split(platforms, ",") {
				platform, err := ParsePlatform(p)
				if err != nil {
					return invalid("%v", errors.UserMessage(err))
				}
				dep.Ignore[platform] = true
			}
		}
	}

	if i := strings.IndexByte(body, '('); i >= 0 {
		inner, ok := parens(body[i:])
		if !ok {
			return invalid("malformed alias block %q", body[i:])
		}
		body = body[:i]
		dep.Aliases = make(map[Platform]string)
		for _, pair := range strings.Split(inner, ",") {
			name, alias, ok := strings.Cut(pair, ":")
			alias = strings.TrimSpace(alias)
			if !ok || alias == "" {
				return invalid("alias %q must look like platform:id", pair)
			}
			platform, err := ParsePlatform(name)
			if err != nil {
				return invalid("%v", errors.UserMessage(err))
			}
			dep.Aliases[platform] = alias
		}
	}

	id, kind, hasKind := strings.Cut(body, "@")
	dep.ID = strings.TrimSpace(id)
	if dep.ID == "" {
		return invalid("missing id")
	}
	if hasKind {
		k, err := ParseDependencyKind(kind)
		if err != nil {
			return invalid("unknown kind %q", strings.TrimSpace(kind))
		}
		dep.Kind = k
	}
	return dep, nil
}

// ParseDependencies parses every entry of list with [ParseDependency].
func ParseDependencies(list []string) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			continue
		}
		d, err := ParseDependency(s)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, nil
}

func parens(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// PlatformDependency is a dependency expressed in one platform's vocabulary.
type PlatformDependency struct {
	ID   string
	Kind string
}

// Simplify converts deps into platform pairs. Dependencies ignored for
// platform are skipped, the identifier is the platform alias or the ID, and
// the kind is looked up with convert. Pairs with an empty identifier or
// kind are dropped. No de-duplication is done; see [DistinctByID].
func Simplify(deps []Dependency, platform Platform, convert func(DependencyKind) string) []PlatformDependency {
	out := make([]PlatformDependency, 0, len(deps))
	for _, d := range deps {
		if d.IsIgnored(platform) {
			continue
		}
		id := strings.TrimSpace(d.ResolveFor(platform))
		kind := convert(d.Kind)
		if id == "" || kind == "" {
			continue
		}
		out = append(out, PlatformDependency{ID: id, Kind: kind})
	}
	return out
}

// DistinctByID removes later pairs whose identifier equals an earlier one,
// ignoring case. Order is preserved.
func DistinctByID(deps []PlatformDependency) []PlatformDependency {
	seen := make(map[string]bool, len(deps))
	out := make([]PlatformDependency, 0, len(deps))
	for _, d := range deps {
		key := strings.ToLower(d.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
