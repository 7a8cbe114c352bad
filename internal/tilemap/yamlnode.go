package tilemap

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Helpers over yaml.Node mapping trees. The descriptor is handled as raw
// nodes so section order and the opaque definition sections survive a
// round trip.

func mappingPairs(m *yaml.Node) [][2]*yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([][2]*yaml.Node, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{m.Content[i], m.Content[i+1]})
	}
	return pairs
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func newMapping() *yaml.Node { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}

func nodeString(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	return n.Value
}

func nodeInt(n *yaml.Node, key string) (int, error) {
	v, err := strconv.Atoi(nodeString(n))
	if err != nil {
		return 0, fmt.Errorf("tilemap: %s: %w", key, err)
	}
	return v, nil
}

func nodeBool(n *yaml.Node, key string) (bool, error) {
	v, err := strconv.ParseBool(nodeString(n))
	if err != nil {
		return false, fmt.Errorf("tilemap: %s: %w", key, err)
	}
	return v, nil
}
