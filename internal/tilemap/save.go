package tilemap

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mapvault.dev/internal/container"
	"mapvault.dev/internal/tiles"
)

// Save writes the canonical entry pair to path, carrying every other
// entry of the current container through unchanged. Saving to a new
// location creates a new container there and rebinds the map to it. The
// format version is always stamped to the current one, and the uid is
// recomputed from the written bytes.
func (m *Map) Save(path string) error {
	m.Format = SupportedFormat

	yamlBytes, err := m.MarshalDescriptor()
	if err != nil {
		return err
	}
	binBytes := tiles.Encode(m.Tiles(), m.Resources())

	entries := map[string][]byte{
		descriptorEntry: yamlBytes,
		binaryEntry:     binBytes,
	}
	if m.store != nil {
		for _, name := range m.store.Names() {
			if name == descriptorEntry || name == binaryEntry {
				continue
			}
			b, err := m.store.Read(name)
			if err != nil {
				return fmt.Errorf("tilemap: carry %s: %w", name, err)
			}
			entries[name] = b
		}
	}

	if err := container.Write(path, entries); err != nil {
		return err
	}
	store, err := container.Open(path)
	if err != nil {
		return err
	}
	m.store = store
	m.path = path
	m.uid = ComputeUID(yamlBytes, binBytes)
	return nil
}

// MarshalDescriptor renders the canonical map.yaml bytes from the current
// field values via the explicit descriptor table.
func (m *Map) MarshalDescriptor() ([]byte, error) {
	root := newMapping()
	for _, f := range descriptorFields() {
		if n, ok := f.emit(m); ok {
			appendPair(root, f.key, n)
		}
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("tilemap: marshal descriptor: %w", err)
	}
	return b, nil
}
