package publish

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/matzehuels/modpublish/pkg/errors"
)

// Channel is the release channel of a version.
type Channel string

const (
	Alpha   Channel = "alpha"
	Beta    Channel = "beta"
	Release Channel = "release"
)

// ParseChannel parses a channel name. "stable" is accepted for [Release].
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alpha":
		return Alpha, nil
	case "beta":
		return Beta, nil
	case "release", "stable":
		return Release, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid channel %q (want alpha, beta or release)", s)
}

// ChannelFromVersion infers a channel from a version string:
// "1.0.0-alpha.1" is alpha; beta, rc, pre and snapshot builds are beta;
// anything else is a release.
func ChannelFromVersion(v string) Channel {
	pre := strings.ToLower(v)
	if parsed, err := version.NewVersion(v); err == nil {
		pre = strings.ToLower(parsed.Prerelease())
		if pre == "" {
			return Release
		}
	}
	switch {
	case strings.Contains(pre, "alpha"):
		return Alpha
	case strings.Contains(pre, "beta"),
		strings.Contains(pre, "rc"),
		strings.Contains(pre, "pre"),
		strings.Contains(pre, "snapshot"):
		return Beta
	}
	return Release
}

func (c Channel) String() string { return string(c) }
