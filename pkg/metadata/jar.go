package metadata

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mholt/archives"

	"github.com/matzehuels/modpublish/pkg/errors"
)

const manifestPath = "META-INF/MANIFEST.MF"

// JarReader reads metadata from the loader descriptors inside a jar.
type JarReader struct {
	descriptors []descriptor
}

// NewJarReader returns a reader for Fabric, Quilt, Forge and NeoForge jars.
func NewJarReader() *JarReader {
	return &JarReader{descriptors: []descriptor{
		fabric{},
		quilt{},
		forge{path: "META-INF/mods.toml", loader: "forge"},
		forge{path: "META-INF/neoforge.mods.toml", loader: "neoforge"},
	}}
}

// Read implements [Reader]. Files that are not archives yield (nil, nil)
// like jars without any descriptor.
func (r *JarReader) Read(ctx context.Context, path string) (*Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, nil
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	var md *Metadata
	for _, d := range r.descriptors {
		data, ok, err := readEntry(fsys, d.Path())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s from %s", d.Path(), path)
		}
		if !ok {
			continue
		}
		found, err := d.Parse(data)
		if err != nil {
			return nil, err
		}
		if found == nil {
			continue
		}
		if md == nil {
			md = &Metadata{}
		}
		md.merge(found)
	}
	if md == nil {
		return nil, nil
	}

	if md.Version == "" || isPlaceholder(md.Version) {
		data, ok, err := readEntry(fsys, manifestPath)
		if err == nil && ok {
			if v := manifestAttribute(data, "Implementation-Version"); v != "" {
				md.Version = v
			}
		}
	}
	if isPlaceholder(md.Version) {
		md.Version = ""
	}
	return md, nil
}

// readEntry reads name from fsys. A missing entry is reported as
// (nil, false, nil).
func readEntry(fsys fs.FS, name string) ([]byte, bool, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, fs.ErrInvalid) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// manifestAttribute returns a main-section attribute of a jar manifest.
// Continuation lines start with a single space.
func manifestAttribute(data []byte, key string) string {
	var value string
	matched := false
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if matched {
				value += line[1:]
			}
			continue
		}
		if matched {
			break
		}
		name, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), key) {
			value = strings.TrimSpace(v)
			matched = true
		}
	}
	return value
}
