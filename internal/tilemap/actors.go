package tilemap

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mapvault.dev/internal/grid"
)

// ActorInit is one typed initializer value on an actor placement.
type ActorInit struct {
	Key   string
	Value string
}

// ActorReference is an actor placement: a type tag plus ordered inits,
// keyed by a unique id within the map. Coordinates are not validated
// against bounds at parse time; see Map.ValidatePlacements.
type ActorReference struct {
	ID    string
	Type  string
	Inits []ActorInit
}

func (a *ActorReference) Init(key string) (string, bool) {
	for _, in := range a.Inits {
		if in.Key == key {
			return in.Value, true
		}
	}
	return "", false
}

// SetInit replaces the init with the same key or appends a new one.
func (a *ActorReference) SetInit(key, value string) {
	for i := range a.Inits {
		if a.Inits[i].Key == key {
			a.Inits[i].Value = value
			return
		}
	}
	a.Inits = append(a.Inits, ActorInit{Key: key, Value: value})
}

// Location parses the Location init ("x,y").
func (a *ActorReference) Location() (grid.CPos, bool) {
	v, ok := a.Init("Location")
	if !ok {
		return grid.CPos{}, false
	}
	c, err := parseCell(v)
	if err != nil {
		return grid.CPos{}, false
	}
	return c, true
}

func (a *ActorReference) Owner() string {
	v, _ := a.Init("Owner")
	return v
}

// Actors is the placement collection: keyed by id, iterated in insertion
// order.
type Actors struct {
	list []*ActorReference
	byID map[string]int
}

func NewActors() *Actors {
	return &Actors{byID: map[string]int{}}
}

// Set inserts a, overwriting an existing entry with the same id in place.
func (as *Actors) Set(a *ActorReference) {
	if i, ok := as.byID[a.ID]; ok {
		as.list[i] = a
		return
	}
	as.byID[a.ID] = len(as.list)
	as.list = append(as.list, a)
}

func (as *Actors) Get(id string) (*ActorReference, bool) {
	i, ok := as.byID[id]
	if !ok {
		return nil, false
	}
	return as.list[i], true
}

func (as *Actors) All() []*ActorReference { return as.list }

func (as *Actors) Len() int { return len(as.list) }

// Smudge is a terrain scar placement. Its descriptor key encodes
// "<type> <x>,<y> <depth>".
type Smudge struct {
	Type     string
	Location grid.CPos
	Depth    int
}

func parseActors(section *yaml.Node) *Actors {
	as := NewActors()
	for _, pair := range mappingPairs(section) {
		id, body := pair[0].Value, pair[1]
		a := &ActorReference{ID: id}
		for _, f := range mappingPairs(body) {
			if f[0].Value == "Type" {
				a.Type = nodeString(f[1])
				continue
			}
			a.Inits = append(a.Inits, ActorInit{Key: f[0].Value, Value: nodeString(f[1])})
		}
		if a.Type == "" {
			log.Printf("tilemap: actor %s has no type, skipped", id)
			continue
		}
		as.Set(a)
	}
	return as
}

func emitActors(as *Actors) *yaml.Node {
	section := newMapping()
	for _, a := range as.All() {
		body := newMapping()
		appendPair(body, "Type", scalarNode(a.Type))
		for _, in := range a.Inits {
			appendPair(body, in.Key, scalarNode(in.Value))
		}
		appendPair(section, a.ID, body)
	}
	return section
}

func parseSmudges(section *yaml.Node) []Smudge {
	var out []Smudge
	for _, pair := range mappingPairs(section) {
		s, err := parseSmudgeKey(pair[0].Value)
		if err != nil {
			log.Printf("tilemap: %v, skipped", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

func parseSmudgeKey(key string) (Smudge, error) {
	parts := strings.Fields(key)
	if len(parts) != 3 {
		return Smudge{}, fmt.Errorf("bad smudge key %q", key)
	}
	loc, err := parseCell(parts[1])
	if err != nil {
		return Smudge{}, fmt.Errorf("bad smudge key %q: %w", key, err)
	}
	depth, err := strconv.Atoi(parts[2])
	if err != nil {
		return Smudge{}, fmt.Errorf("bad smudge key %q: %w", key, err)
	}
	return Smudge{Type: parts[0], Location: loc, Depth: depth}, nil
}

func emitSmudges(smudges []Smudge) *yaml.Node {
	section := newMapping()
	for _, s := range smudges {
		key := fmt.Sprintf("%s %d,%d %d", s.Type, s.Location.X, s.Location.Y, s.Depth)
		appendPair(section, key, scalarNode(""))
	}
	return section
}

func parseCell(s string) (grid.CPos, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return grid.CPos{}, fmt.Errorf("bad cell %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.CPos{}, fmt.Errorf("bad cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.CPos{}, fmt.Errorf("bad cell %q: %w", s, err)
	}
	return grid.CPos{X: x, Y: y}, nil
}
