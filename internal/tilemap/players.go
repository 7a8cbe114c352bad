package tilemap

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// PlayerReference describes one named faction slot on the map.
type PlayerReference struct {
	Name         string
	Faction      string
	Playable     bool
	NonCombatant bool
	OwnsWorld    bool
	Allies       []string
	Enemies      []string
}

// Players is the map's player collection: keyed by name, iterated in
// insertion order so saves are canonical.
type Players struct {
	list   []*PlayerReference
	byName map[string]int
}

func NewPlayers() *Players {
	return &Players{byName: map[string]int{}}
}

// Set inserts p, overwriting an existing entry with the same name in
// place. Last one wins; position is kept.
func (ps *Players) Set(p *PlayerReference) {
	if i, ok := ps.byName[p.Name]; ok {
		ps.list[i] = p
		return
	}
	ps.byName[p.Name] = len(ps.list)
	ps.list = append(ps.list, p)
}

func (ps *Players) Get(name string) (*PlayerReference, bool) {
	i, ok := ps.byName[name]
	if !ok {
		return nil, false
	}
	return ps.list[i], true
}

func (ps *Players) Has(name string) bool {
	_, ok := ps.byName[name]
	return ok
}

// All returns the players in insertion order. The slice is shared; do not
// reorder it.
func (ps *Players) All() []*PlayerReference { return ps.list }

func (ps *Players) Len() int { return len(ps.list) }

func parsePlayers(section *yaml.Node) (*Players, error) {
	ps := NewPlayers()
	for _, pair := range mappingPairs(section) {
		name, body := pair[0].Value, pair[1]
		p := &PlayerReference{Name: name}
		for _, f := range mappingPairs(body) {
			key, val := f[0].Value, f[1]
			var err error
			switch key {
			case "Faction":
				p.Faction = nodeString(val)
			case "Playable":
				p.Playable, err = nodeBool(val, "Playable")
			case "NonCombatant":
				p.NonCombatant, err = nodeBool(val, "NonCombatant")
			case "OwnsWorld":
				p.OwnsWorld, err = nodeBool(val, "OwnsWorld")
			case "Allies":
				p.Allies = splitNames(nodeString(val))
			case "Enemies":
				p.Enemies = splitNames(nodeString(val))
			}
			if err != nil {
				return nil, err
			}
		}
		ps.Set(p)
	}
	return ps, nil
}

func emitPlayers(ps *Players) *yaml.Node {
	section := newMapping()
	for _, p := range ps.All() {
		body := newMapping()
		appendPair(body, "Faction", scalarNode(p.Faction))
		if p.Playable {
			appendPair(body, "Playable", boolNode(true))
		}
		if p.NonCombatant {
			appendPair(body, "NonCombatant", boolNode(true))
		}
		if p.OwnsWorld {
			appendPair(body, "OwnsWorld", boolNode(true))
		}
		if len(p.Allies) > 0 {
			appendPair(body, "Allies", scalarNode(strings.Join(p.Allies, ",")))
		}
		if len(p.Enemies) > 0 {
			appendPair(body, "Enemies", scalarNode(strings.Join(p.Enemies, ",")))
		}
		appendPair(section, p.Name, body)
	}
	return section
}

func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
