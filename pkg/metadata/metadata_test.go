package metadata

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

func writeJar(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.jar")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const fabricJSON = `{
  "schemaVersion": 1,
  "id": "examplemod",
  "name": "Example Mod",
  "version": "1.2.0+1.20.1",
  "depends": {
    "fabricloader": ">=0.14.21",
    "minecraft": "~1.20.1",
    "java": ">=17",
    "fabric": "*",
    "cloth-config": ">=11"
  },
  "recommends": {"modmenu": "*"},
  "breaks": {"optifabric": "*"},
  "custom": {
    "modpublish": {
      "modrinth": "AABBCCDD",
      "curseforge": "394468",
      "dependencies": ["cloth-config@required(curseforge:cloth-config-forge)"]
    }
  }
}`

func TestReadFabric(t *testing.T) {
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"fabric.mod.json": fabricJSON}))
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, "examplemod", md.ID)
	assert.Equal(t, "Example Mod", md.Name)
	assert.Equal(t, "1.2.0+1.20.1", md.Version)
	assert.Equal(t, []string{"fabric"}, md.Loaders)
	assert.Equal(t, []string{"1.20.1"}, md.GameVersions)
	assert.Equal(t, []string{"Java 17"}, md.JavaVersions)
	assert.Equal(t, "AABBCCDD", md.ProjectIDs[publish.Modrinth])
	assert.Equal(t, "394468", md.ProjectIDs[publish.CurseForge])

	byID := make(map[string]publish.Dependency)
	for _, d := range md.Dependencies {
		byID[d.ID] = d
	}
	assert.NotContains(t, byID, "fabricloader")
	assert.NotContains(t, byID, "minecraft")
	assert.NotContains(t, byID, "java")
	assert.Equal(t, publish.Required, byID["fabric-api"].Kind)
	assert.Equal(t, publish.Recommended, byID["modmenu"].Kind)
	assert.Equal(t, publish.Incompatible, byID["optifabric"].Kind)
	assert.Equal(t, "cloth-config-forge", byID["cloth-config"].ResolveFor(publish.CurseForge))
}

func TestReadFabricArrayConstraint(t *testing.T) {
	body := `{"id":"m","version":"1.0.0","depends":{"minecraft":["1.19.4","1.20"]}}`
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"fabric.mod.json": body}))
	require.NoError(t, err)
	assert.Equal(t, []string{"1.19.4", "1.20"}, md.GameVersions)
}

func TestReadQuilt(t *testing.T) {
	body := `{
  "schema_version": 1,
  "quilt_loader": {
    "id": "quiltmod",
    "version": "2.0.0",
    "metadata": {"name": "Quilt Mod"},
    "depends": [
      "quilt_loader",
      {"id": "minecraft", "versions": ">=1.20"},
      {"id": "quilted_fabric_api", "versions": "*"},
      {"id": "emi", "optional": true}
    ],
    "breaks": [{"id": "sodium", "versions": "<0.5"}]
  }
}`
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"quilt.mod.json": body}))
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, "quiltmod", md.ID)
	assert.Equal(t, "Quilt Mod", md.Name)
	assert.Equal(t, []string{"quilt"}, md.Loaders)
	assert.Equal(t, []string{"1.20"}, md.GameVersions)
	assert.Equal(t, []publish.Dependency{
		{ID: "qsl", Kind: publish.Required},
		{ID: "emi", Kind: publish.Optional},
		{ID: "sodium", Kind: publish.Incompatible},
	}, md.Dependencies)
}

const forgeTOML = `
modLoader = "javafml"
loaderVersion = "[47,)"

[[mods]]
modId = "forgemod"
version = "${file.jarVersion}"
displayName = "Forge Mod"

[[dependencies.forgemod]]
modId = "forge"
mandatory = true
versionRange = "[47,)"

[[dependencies.forgemod]]
modId = "minecraft"
mandatory = true
versionRange = "[1.20.1,1.21)"

[[dependencies.forgemod]]
modId = "jei"
mandatory = false
versionRange = "*"
`

func TestReadForgeUsesManifestVersion(t *testing.T) {
	path := writeJar(t, map[string]string{
		"META-INF/mods.toml":   forgeTOML,
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\r\nImplementation-Version: 3.1.4\r\n\r\n",
	})
	md, err := NewJarReader().Read(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, "forgemod", md.ID)
	assert.Equal(t, "3.1.4", md.Version)
	assert.Equal(t, []string{"forge"}, md.Loaders)
	assert.Equal(t, []string{"1.20.1"}, md.GameVersions)
	assert.Equal(t, []publish.Dependency{{ID: "jei", Kind: publish.Optional}}, md.Dependencies)
}

func TestReadForgePlaceholderWithoutManifest(t *testing.T) {
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"META-INF/mods.toml": forgeTOML}))
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Empty(t, md.Version)
}

func TestReadNeoForge(t *testing.T) {
	body := `
[[mods]]
modId = "neomod"
version = "1.0.0"

[[dependencies.neomod]]
modId = "neoforge"
type = "required"
versionRange = "[20.4,)"

[[dependencies.neomod]]
modId = "minecraft"
type = "required"
versionRange = "[1.20.4,1.21)"

[[dependencies.neomod]]
modId = "rubidium"
type = "incompatible"

[[dependencies.neomod]]
modId = "curios"
type = "optional"

[modpublish]
modrinth = "NEOMOD01"
`
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"META-INF/neoforge.mods.toml": body}))
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, []string{"neoforge"}, md.Loaders)
	assert.Equal(t, []string{"1.20.4"}, md.GameVersions)
	assert.Equal(t, "NEOMOD01", md.ProjectIDs[publish.Modrinth])
	assert.Equal(t, []publish.Dependency{
		{ID: "rubidium", Kind: publish.Incompatible},
		{ID: "curios", Kind: publish.Optional},
	}, md.Dependencies)
}

func TestReadMergesLoaders(t *testing.T) {
	path := writeJar(t, map[string]string{
		"fabric.mod.json":    `{"id":"multi","version":"1.0.0","depends":{"minecraft":"1.20.1"}}`,
		"quilt.mod.json":     `{"quilt_loader":{"id":"multi","version":"1.0.0"}}`,
		"META-INF/mods.toml": `[[mods]]` + "\n" + `modId="multi"` + "\n" + `version="1.0.0"`,
	})
	md, err := NewJarReader().Read(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, []string{"fabric", "quilt", "forge"}, md.Loaders)
	assert.Equal(t, []string{"1.20.1"}, md.GameVersions)
}

func TestReadWithoutMetadata(t *testing.T) {
	md, err := NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"com/example/Main.class": "x"}))
	require.NoError(t, err)
	assert.Nil(t, md)

	plain := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("not a zip"), 0o644))
	md, err = NewJarReader().Read(context.Background(), plain)
	require.NoError(t, err)
	assert.Nil(t, md)
}

func TestReadErrors(t *testing.T) {
	_, err := NewJarReader().Read(context.Background(), filepath.Join(t.TempDir(), "missing.jar"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"fabric.mod.json": "{"}))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	bad := `{"id":"m","custom":{"modpublish":{"dependencies":["@required"]}}}`
	_, err = NewJarReader().Read(context.Background(), writeJar(t, map[string]string{"fabric.mod.json": bad}))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDependency))
}

func TestLowerBound(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.20.1", "1.20.1"},
		{"~1.20.1", "1.20.1"},
		{">=1.19 <1.20", "1.19"},
		{"[1.20.1,1.21)", "1.20.1"},
		{"1.20.x", "1.20"},
		{"*", ""},
		{"<1.20", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, lowerBound(tt.in))
		})
	}
}

func TestJavaVersion(t *testing.T) {
	assert.Equal(t, "Java 17", javaVersion(">=17"))
	assert.Equal(t, "Java 8", javaVersion(">=1.8"))
	assert.Equal(t, "Java 21", javaVersion("[21,)"))
	assert.Empty(t, javaVersion("*"))
}

func TestManifestAttribute(t *testing.T) {
	data := []byte("Manifest-Version: 1.0\nImplementation-Version: 1.0.0-beta.\n 1\nBuilt-By: ci\n")
	assert.Equal(t, "1.0.0-beta.1", manifestAttribute(data, "Implementation-Version"))
	assert.Empty(t, manifestAttribute(data, "Implementation-Title"))
}
