package curseforge

import (
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/modpublish/pkg/publish"
)

// Submission is the pending upload of one file. [Repair] never changes a
// submission in place; it returns a repaired copy.
type Submission struct {
	File         publish.File
	DisplayName  string
	Changelog    string
	ReleaseType  string
	Relations    []Relation
	Variants     VariantSet
	ParentFileID int
}

// Clone returns a deep copy of s.
func (s Submission) Clone() Submission {
	c := s
	c.Relations = slices.Clone(s.Relations)
	if s.Variants != nil {
		c.Variants = make(VariantSet, len(s.Variants))
		for i, g := range s.Variants {
			c.Variants[i] = slices.Clone(g)
		}
	}
	return c
}

// metadata is the JSON "metadata" part of an upload.
type metadata struct {
	Changelog     string             `json:"changelog"`
	ChangelogType string             `json:"changelogType"`
	DisplayName   string             `json:"displayName,omitempty"`
	ParentFileID  int                `json:"parentFileID,omitempty"`
	GameVersions  []int              `json:"gameVersions,omitempty"`
	ReleaseType   string             `json:"releaseType"`
	Relations     *metadataRelations `json:"relations,omitempty"`
}

type metadataRelations struct {
	Projects []Relation `json:"projects"`
}

// metadata renders s for the upload API. Child files carry the parent id
// and no game versions; CurseForge rejects requests that set both.
func (s Submission) metadata() metadata {
	m := metadata{
		Changelog:     s.Changelog,
		ChangelogType: "markdown",
		DisplayName:   s.DisplayName,
		ReleaseType:   s.ReleaseType,
	}
	if s.ParentFileID != 0 {
		m.ParentFileID = s.ParentFileID
	} else {
		m.GameVersions = s.Variants.First()
		if m.GameVersions == nil {
			m.GameVersions = []int{}
		}
	}
	if len(s.Relations) > 0 {
		m.Relations = &metadataRelations{Projects: s.Relations}
	}
	return m
}

// Repair inspects a failed upload and returns a repaired copy of sub along
// with whether the upload should be attempted again.
//
//   - An invalid relation slug removes the relation naming that slug. The
//     submission is repaired only if a relation was actually removed.
//   - An invalid game-version id discards the first variant group. This is
//     possible while more than one group remains.
//
// Any other error is fatal.
func Repair(sub Submission, err error) (Submission, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return sub, false
	}

	switch apiErr.Code {
	case ErrInvalidRelationSlug:
		slug := apiErr.Value()
		if slug == "" {
			return sub, false
		}
		next := sub.Clone()
		next.Relations = slices.DeleteFunc(next.Relations, func(r Relation) bool {
			return strings.EqualFold(r.Slug, slug)
		})
		return next, len(next.Relations) < len(sub.Relations)

	case ErrInvalidGameVersionID:
		if sub.ParentFileID != 0 || len(sub.Variants) <= 1 {
			return sub, false
		}
		next := sub.Clone()
		next.Variants = next.Variants[1:]
		return next, true
	}
	return sub, false
}
