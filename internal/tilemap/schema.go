package tilemap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fieldSpec binds one descriptor key to its typed accessors. The table is
// explicit and ordered: parse matches by name, emit writes canonical
// descriptors in exactly this order.
type fieldSpec struct {
	key   string
	parse func(m *Map, n *yaml.Node) error
	emit  func(m *Map) (*yaml.Node, bool)
}

func stringField(key string, get func(m *Map) *string, omitEmpty bool) fieldSpec {
	return fieldSpec{
		key: key,
		parse: func(m *Map, n *yaml.Node) error {
			*get(m) = nodeString(n)
			return nil
		},
		emit: func(m *Map) (*yaml.Node, bool) {
			v := *get(m)
			if omitEmpty && v == "" {
				return nil, false
			}
			return scalarNode(v), true
		},
	}
}

func boolField(key string, get func(m *Map) *bool) fieldSpec {
	return fieldSpec{
		key: key,
		parse: func(m *Map, n *yaml.Node) error {
			v, err := nodeBool(n, key)
			if err != nil {
				return err
			}
			*get(m) = v
			return nil
		},
		emit: func(m *Map) (*yaml.Node, bool) {
			return boolNode(*get(m)), true
		},
	}
}

func defField(key string, get func(m *Map) **yaml.Node) fieldSpec {
	return fieldSpec{
		key: key,
		parse: func(m *Map, n *yaml.Node) error {
			*get(m) = n
			return nil
		},
		emit: func(m *Map) (*yaml.Node, bool) {
			n := *get(m)
			return n, n != nil
		},
	}
}

func descriptorFields() []fieldSpec {
	return []fieldSpec{
		{
			key: "MapFormat",
			parse: func(m *Map, n *yaml.Node) error {
				v, err := nodeInt(n, "MapFormat")
				if err != nil {
					return err
				}
				m.Format = v
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) { return intNode(m.Format), true },
		},
		stringField("RequiresMod", func(m *Map) *string { return &m.RequiresMod }, true),
		stringField("Title", func(m *Map) *string { return &m.Title }, false),
		stringField("Description", func(m *Map) *string { return &m.Description }, true),
		stringField("Author", func(m *Map) *string { return &m.Author }, false),
		stringField("Tileset", func(m *Map) *string { return &m.Tileset }, false),
		stringField("Type", func(m *Map) *string { return &m.Type }, true),
		boolField("Selectable", func(m *Map) *bool { return &m.Selectable }),
		boolField("UseAsShellmap", func(m *Map) *bool { return &m.UseAsShellmap }),
		{
			key: "MapSize",
			parse: func(m *Map, n *yaml.Node) error {
				c, err := parseCell(nodeString(n))
				if err != nil {
					return fmt.Errorf("tilemap: MapSize: %w", err)
				}
				m.Width, m.Height = c.X, c.Y
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) {
				return scalarNode(fmt.Sprintf("%d,%d", m.Width, m.Height)), true
			},
		},
		{
			key: "Bounds",
			parse: func(m *Map, n *yaml.Node) error {
				r, err := parseRect(nodeString(n))
				if err != nil {
					return err
				}
				m.Bounds = r
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) {
				return scalarNode(m.Bounds.String()), true
			},
		},
		{
			key: "Options",
			parse: func(m *Map, n *yaml.Node) error {
				o, err := parseOptions(n)
				if err != nil {
					return err
				}
				m.Options = o
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) { return emitOptions(m.Options) },
		},
		{
			key: "Players",
			parse: func(m *Map, n *yaml.Node) error {
				ps, err := parsePlayers(n)
				if err != nil {
					return err
				}
				m.Players = ps
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) {
				if m.Players.Len() == 0 {
					return nil, false
				}
				return emitPlayers(m.Players), true
			},
		},
		{
			key: "Actors",
			parse: func(m *Map, n *yaml.Node) error {
				m.actors = newLazy(func() *Actors { return parseActors(n) })
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) {
				if m.Actors().Len() == 0 {
					return nil, false
				}
				return emitActors(m.Actors()), true
			},
		},
		{
			key: "Smudges",
			parse: func(m *Map, n *yaml.Node) error {
				m.smudges = newLazy(func() []Smudge { return parseSmudges(n) })
				return nil
			},
			emit: func(m *Map) (*yaml.Node, bool) {
				if len(m.Smudges()) == 0 {
					return nil, false
				}
				return emitSmudges(m.Smudges()), true
			},
		},
		defField("Rules", func(m *Map) **yaml.Node { return &m.Defs.Rules }),
		defField("Sequences", func(m *Map) **yaml.Node { return &m.Defs.Sequences }),
		defField("VoxelSequences", func(m *Map) **yaml.Node { return &m.Defs.VoxelSequences }),
		defField("Weapons", func(m *Map) **yaml.Node { return &m.Defs.Weapons }),
		defField("Voices", func(m *Map) **yaml.Node { return &m.Defs.Voices }),
		defField("Notifications", func(m *Map) **yaml.Node { return &m.Defs.Notifications }),
		defField("Translations", func(m *Map) **yaml.Node { return &m.Defs.Translations }),
	}
}
