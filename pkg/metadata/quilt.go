package metadata

import (
	"encoding/json"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// quiltDependency is either a bare mod id or an object.
type quiltDependency struct {
	ID       string
	Versions constraints
	Optional bool
}

func (d *quiltDependency) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.ID); err == nil {
		return nil
	}
	var obj struct {
		ID       string      `json:"id"`
		Versions constraints `json:"versions"`
		Optional bool        `json:"optional"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.ID, d.Versions, d.Optional = obj.ID, obj.Versions, obj.Optional
	return nil
}

type quiltFile struct {
	Loader struct {
		ID       string `json:"id"`
		Version  string `json:"version"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
		Depends []quiltDependency `json:"depends"`
		Breaks  []quiltDependency `json:"breaks"`
	} `json:"quilt_loader"`
	ModPublish *custom `json:"modpublish"`
}

// quilt reads quilt.mod.json.
type quilt struct{}

func (quilt) Path() string { return "quilt.mod.json" }

func (q quilt) Parse(data []byte) (*Metadata, error) {
	var file quiltFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", q.Path())
	}

	md := &Metadata{
		ID:      file.Loader.ID,
		Name:    file.Loader.Metadata.Name,
		Version: file.Loader.Version,
		Loaders: []string{"quilt"},
	}
	for _, d := range file.Loader.Depends {
		kind := publish.Required
		if d.Optional {
			kind = publish.Optional
		}
		md.addDependency(d.ID, kind, d.Versions...)
	}
	for _, d := range file.Loader.Breaks {
		md.addDependency(d.ID, publish.Incompatible, d.Versions...)
	}
	if err := file.ModPublish.apply(md); err != nil {
		return nil, err
	}
	return md, nil
}
