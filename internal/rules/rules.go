// Package rules is the narrow surface this library consumes from the
// rules/trait engine: the faction list, the tileset catalog, and the raw
// definition sections a map carries through verbatim.
package rules

import (
	"gopkg.in/yaml.v3"

	"mapvault.dev/internal/tileset"
)

// Definitions holds the opaque descriptor sections a map passes through
// to the rules engine unchanged. Each field is the section's raw node
// tree, nil when the section is absent.
type Definitions struct {
	Rules          *yaml.Node
	Sequences      *yaml.Node
	VoxelSequences *yaml.Node
	Weapons        *yaml.Node
	Voices         *yaml.Node
	Notifications  *yaml.Node
	Translations   *yaml.Node
}

// Ruleset is the resolved rule state for one map.
type Ruleset struct {
	Factions []string
	TileSet  *tileset.TileSet
}

// Loader resolves the ruleset for a map given its tileset identifier and
// its definition sections. Implemented by the external rules engine; the
// map memoizes the result.
type Loader func(tilesetName string, defs Definitions) (*Ruleset, error)
