package modrinth

import (
	"slices"
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// DimensionPolicy decides how the values of one dimension of a previous
// version must relate to the new version's values.
type DimensionPolicy int

const (
	// Any always holds.
	Any DimensionPolicy = iota
	// Subset holds when every previous value is also a current value.
	Subset
	// Intersection holds when at least one previous value is a current value.
	Intersection
)

func (p DimensionPolicy) String() string {
	switch p {
	case Subset:
		return "subset"
	case Intersection:
		return "intersection"
	}
	return "any"
}

// UnfeaturePolicy is the composite unfeature policy. When Disabled is set
// nothing is unfeatured.
type UnfeaturePolicy struct {
	Disabled     bool
	GameVersions DimensionPolicy
	Channel      DimensionPolicy
	Loaders      DimensionPolicy
}

// DefaultUnfeatureMode is used when no mode is configured.
const DefaultUnfeatureMode = "subset"

// String renders p as a flag list accepted by [ParseUnfeatureMode].
func (p UnfeaturePolicy) String() string {
	if p.Disabled {
		return "none"
	}
	return "game-version-" + p.GameVersions.String() +
		" | version-type-" + p.Channel.String() +
		" | loader-" + p.Loaders.String()
}

type dimension int

const (
	dimGameVersion dimension = iota
	dimChannel
	dimLoader
)

var dimensionPrefixes = map[string]dimension{
	"game-version": dimGameVersion,
	"version":      dimGameVersion,
	"version-type": dimChannel,
	"channel":      dimChannel,
	"loader":       dimLoader,
}

// ParseUnfeatureMode parses an unfeature mode. It accepts the presets
//
//	none          nothing is unfeatured
//	any           every other featured version is unfeatured
//	subset        game-version-subset | loader-subset | version-type-any
//	intersection  game-version-intersection | loader-intersection | version-type-any
//
// and flags "<dimension>-<policy>", combined with "|", "," or spaces.
// Dimensions are game-version (alias version), loader and version-type
// (alias channel); "_" may be used in place of "-", so VERSION_SUBSET is
// accepted too. Presets other than none can be mixed with flags. Per
// dimension a subset flag wins over an intersection flag; a dimension
// without either is any. An empty mode means [DefaultUnfeatureMode].
func ParseUnfeatureMode(mode string) (UnfeaturePolicy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(mode), "_", "-")
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == '|' || r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		fields = []string{DefaultUnfeatureMode}
	}
	if len(fields) == 1 && fields[0] == "none" {
		return UnfeaturePolicy{Disabled: true}, nil
	}

	var subset, intersection [3]bool
	for _, f := range fields {
		switch f {
		case "any":
			continue
		case "subset":
			subset[dimGameVersion], subset[dimLoader] = true, true
			continue
		case "intersection":
			intersection[dimGameVersion], intersection[dimLoader] = true, true
			continue
		}

		i := strings.LastIndexByte(f, '-')
		if i <= 0 {
			return UnfeaturePolicy{}, invalidMode(mode, f)
		}
		dim, ok := dimensionPrefixes[f[:i]]
		if !ok {
			return UnfeaturePolicy{}, invalidMode(mode, f)
		}
		switch f[i+1:] {
		case "subset":
			subset[dim] = true
		case "intersection":
			intersection[dim] = true
		case "any":
		default:
			return UnfeaturePolicy{}, invalidMode(mode, f)
		}
	}

	resolve := func(d dimension) DimensionPolicy {
		switch {
		case subset[d]:
			return Subset
		case intersection[d]:
			return Intersection
		}
		return Any
	}
	return UnfeaturePolicy{
		GameVersions: resolve(dimGameVersion),
		Channel:      resolve(dimChannel),
		Loaders:      resolve(dimLoader),
	}, nil
}

func invalidMode(mode, flag string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "modrinth: invalid unfeature mode %q (unknown flag %q)", mode, flag)
}

// UnfeaturableVersion is the part of a version the unfeature decision
// looks at.
type UnfeaturableVersion struct {
	ID           string
	ProjectID    string
	GameVersions []string
	Channel      publish.Channel
	Loaders      []string
}

// SatisfiesSet applies p to set-valued dimensions.
func SatisfiesSet(previous, current []string, p DimensionPolicy) bool {
	contains := func(v string) bool {
		return slices.ContainsFunc(current, func(c string) bool { return strings.EqualFold(c, v) })
	}
	switch p {
	case Subset:
		return !slices.ContainsFunc(previous, func(v string) bool { return !contains(v) })
	case Intersection:
		return slices.ContainsFunc(previous, contains)
	}
	return true
}

// SatisfiesScalar applies p to single-valued dimensions, for which subset
// and intersection both mean equality.
func SatisfiesScalar[T comparable](previous, current T, p DimensionPolicy) bool {
	if p == Any {
		return true
	}
	return previous == current
}

// ShouldUnfeature reports whether previous is superseded by current under
// policy. A version never supersedes itself.
func ShouldUnfeature(previous, current UnfeaturableVersion, policy UnfeaturePolicy) bool {
	if policy.Disabled || previous.ID == current.ID {
		return false
	}
	return SatisfiesSet(previous.GameVersions, current.GameVersions, policy.GameVersions) &&
		SatisfiesScalar(previous.Channel, current.Channel, policy.Channel) &&
		SatisfiesSet(previous.Loaders, current.Loaders, policy.Loaders)
}
