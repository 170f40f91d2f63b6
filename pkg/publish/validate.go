package publish

import (
	"os"

	"github.com/matzehuels/modpublish/pkg/errors"
)

// Requirements lists the request fields a platform needs beyond the
// always-required id, token and files.
type Requirements struct {
	Version      bool
	Loaders      bool
	GameVersions bool
}

// Validate checks r before any network call. The returned error names the
// platform and the missing or invalid field.
func Validate(platform Platform, r Request, need Requirements) error {
	name := string(platform)
	switch {
	case r.ID == "":
		return errors.Missing(name, "id")
	case r.Token == "":
		return errors.Missing(name, "token")
	case len(r.Files) == 0:
		return errors.Missing(name, "files")
	case need.Version && r.Version == "":
		return errors.Missing(name, "version")
	case need.Loaders && len(r.Loaders) == 0:
		return errors.Missing(name, "loaders")
	case need.GameVersions && len(r.GameVersions) == 0:
		return errors.Missing(name, "game-versions")
	}

	for _, f := range r.Files {
		if err := errors.ValidateFilePath(f.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s: invalid file %q", name, f.Path)
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s: file %q", name, f.Path)
		}
		if info.IsDir() {
			return errors.New(errors.ErrCodeInvalidPath, "%s: %q is a directory", name, f.Path)
		}
	}

	if r.Channel != "" {
		if _, err := ParseChannel(string(r.Channel)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: channel", name)
		}
	}
	return nil
}
