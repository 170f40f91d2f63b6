// Package metadata reads mod metadata embedded in jar files.
//
// A mod jar carries one or more loader descriptors: fabric.mod.json,
// quilt.mod.json, META-INF/mods.toml (Forge) and
// META-INF/neoforge.mods.toml (NeoForge). [JarReader] parses every
// descriptor present and merges them into a single [Metadata] whose
// values act as the lowest-precedence defaults for a publish request.
//
// Dependencies on the loader itself, the game and Java are not returned
// as dependencies; they become loaders, game versions and Java versions
// instead.
//
//	md, err := metadata.NewJarReader().Read(context.Background(), "build/libs/mymod-1.0.0.jar")
//	if err != nil {
//	    return err
//	}
//	if md == nil {
//	    // no recognized descriptor in the jar
//	}
package metadata
