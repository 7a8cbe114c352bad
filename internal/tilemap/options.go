package tilemap

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Options is the map's lobby option record. Pointer fields are tri-state:
// nil means "unset, leave the server default untouched".
type Options struct {
	Cheats           *bool
	Crates           *bool
	Fog              *bool
	Shroud           *bool
	AllyBuildRadius  *bool
	FragileAlliances *bool
	StartingCash     *int

	TechLevel                 string
	ConfigurableStartingUnits bool
	Difficulties              []string
}

// LobbySettings is the narrow shape of the external session settings
// object map options are copied into.
type LobbySettings struct {
	Cheats           bool
	Crates           bool
	Fog              bool
	Shroud           bool
	AllyBuildRadius  bool
	FragileAlliances bool
	StartingCash     int

	TechLevel                 string
	ConfigurableStartingUnits bool
	Difficulties              []string
}

// Apply overlays the set options onto s, leaving unset fields alone.
func (o Options) Apply(s *LobbySettings) {
	if o.Cheats != nil {
		s.Cheats = *o.Cheats
	}
	if o.Crates != nil {
		s.Crates = *o.Crates
	}
	if o.Fog != nil {
		s.Fog = *o.Fog
	}
	if o.Shroud != nil {
		s.Shroud = *o.Shroud
	}
	if o.AllyBuildRadius != nil {
		s.AllyBuildRadius = *o.AllyBuildRadius
	}
	if o.FragileAlliances != nil {
		s.FragileAlliances = *o.FragileAlliances
	}
	if o.StartingCash != nil {
		s.StartingCash = *o.StartingCash
	}
	if o.TechLevel != "" {
		s.TechLevel = o.TechLevel
	}
	if o.ConfigurableStartingUnits {
		s.ConfigurableStartingUnits = true
	}
	if len(o.Difficulties) > 0 {
		s.Difficulties = append([]string(nil), o.Difficulties...)
	}
}

func parseOptions(section *yaml.Node) (Options, error) {
	var o Options
	boolPtr := func(n *yaml.Node, key string) (*bool, error) {
		v, err := nodeBool(n, key)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	for _, pair := range mappingPairs(section) {
		key, val := pair[0].Value, pair[1]
		var err error
		switch key {
		case "Cheats":
			o.Cheats, err = boolPtr(val, key)
		case "Crates":
			o.Crates, err = boolPtr(val, key)
		case "Fog":
			o.Fog, err = boolPtr(val, key)
		case "Shroud":
			o.Shroud, err = boolPtr(val, key)
		case "AllyBuildRadius":
			o.AllyBuildRadius, err = boolPtr(val, key)
		case "FragileAlliances":
			o.FragileAlliances, err = boolPtr(val, key)
		case "StartingCash":
			var v int
			if v, err = nodeInt(val, key); err == nil {
				o.StartingCash = &v
			}
		case "TechLevel":
			o.TechLevel = nodeString(val)
		case "ConfigurableStartingUnits":
			o.ConfigurableStartingUnits, err = nodeBool(val, key)
		case "Difficulties":
			o.Difficulties = splitNames(nodeString(val))
		}
		if err != nil {
			return Options{}, err
		}
	}
	return o, nil
}

func emitOptions(o Options) (*yaml.Node, bool) {
	section := newMapping()
	if o.Cheats != nil {
		appendPair(section, "Cheats", boolNode(*o.Cheats))
	}
	if o.Crates != nil {
		appendPair(section, "Crates", boolNode(*o.Crates))
	}
	if o.Fog != nil {
		appendPair(section, "Fog", boolNode(*o.Fog))
	}
	if o.Shroud != nil {
		appendPair(section, "Shroud", boolNode(*o.Shroud))
	}
	if o.AllyBuildRadius != nil {
		appendPair(section, "AllyBuildRadius", boolNode(*o.AllyBuildRadius))
	}
	if o.FragileAlliances != nil {
		appendPair(section, "FragileAlliances", boolNode(*o.FragileAlliances))
	}
	if o.StartingCash != nil {
		appendPair(section, "StartingCash", intNode(*o.StartingCash))
	}
	if o.TechLevel != "" {
		appendPair(section, "TechLevel", scalarNode(o.TechLevel))
	}
	if o.ConfigurableStartingUnits {
		appendPair(section, "ConfigurableStartingUnits", boolNode(true))
	}
	if len(o.Difficulties) > 0 {
		appendPair(section, "Difficulties", scalarNode(strings.Join(o.Difficulties, ",")))
	}
	if len(section.Content) == 0 {
		return nil, false
	}
	return section, true
}
