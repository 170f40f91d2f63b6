package publish

import (
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
)

// Platform names a distribution platform.
type Platform string

const (
	Modrinth   Platform = "modrinth"
	CurseForge Platform = "curseforge"
	GitHub     Platform = "github"
)

// Platforms returns all supported platforms in publishing order.
func Platforms() []Platform {
	return []Platform{Modrinth, CurseForge, GitHub}
}

// ParsePlatform parses a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Modrinth, CurseForge, GitHub:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown platform %q", s)
}

// ParsePlatforms parses a comma-separated platform list, dropping duplicates.
func ParsePlatforms(s string) ([]Platform, error) {
	var out []Platform
	seen := make(map[Platform]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePlatform(part)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (p Platform) String() string { return string(p) }
