package tilemap

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// jsonValue re-decodes a yaml document through JSON so the validator
// sees the same value shapes a JSON decoder would produce.
func jsonValue(t *testing.T, yamlBytes []byte) any {
	t.Helper()
	var v any
	if err := yaml.Unmarshal(yamlBytes, &v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json encode: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	return out
}

func TestDescriptorSchema_ValidatesCanonicalOutput(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "map.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	desc := "MapFormat: 6\nTitle: Shoreline\nAuthor: dev\nTileset: temperat\nSelectable: true\nUseAsShellmap: false\nMapSize: 2,2\nBounds: 0,0,2,2\n" +
		"Options:\n  Cheats: true\n  StartingCash: 7500\n  Difficulties: easy,hard\n" +
		"Players:\n  PlayerWatcher:\n    Faction: allies\n    Playable: true\n" +
		"Actors:\n  Actor0:\n    Type: mpspawn\n    Location: 1,1\n" +
		"Smudges:\n  crater 1,0 0: \"\"\n"
	path := writeTestMap(t, desc, testBin(t, 2, 2), nil)

	m, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	yamlBytes, err := m.MarshalDescriptor()
	if err != nil {
		t.Fatalf("MarshalDescriptor: %v", err)
	}
	if err := schema.Validate(jsonValue(t, yamlBytes)); err != nil {
		t.Fatalf("canonical descriptor rejected: %v", err)
	}
}

func TestDescriptorSchema_RejectsMalformed(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "map.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	bad := []string{
		// format below the supported floor
		"MapFormat: 4\nTitle: x\nAuthor: x\nTileset: t\nMapSize: 2,2\nBounds: 0,0,2,2\n",
		// missing Tileset
		"MapFormat: 6\nTitle: x\nAuthor: x\nMapSize: 2,2\nBounds: 0,0,2,2\n",
		// malformed MapSize
		"MapFormat: 6\nTitle: x\nAuthor: x\nTileset: t\nMapSize: wide\nBounds: 0,0,2,2\n",
		// actor without a Type
		"MapFormat: 6\nTitle: x\nAuthor: x\nTileset: t\nMapSize: 2,2\nBounds: 0,0,2,2\nActors:\n  Actor0:\n    Location: 1,1\n",
	}
	for i, doc := range bad {
		if err := schema.Validate(jsonValue(t, []byte(doc))); err == nil {
			t.Fatalf("sample %d accepted", i)
		}
	}
}
