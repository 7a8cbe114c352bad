package tilemap

import "testing"

func TestOptions_ApplyOverlaysOnlySetFields(t *testing.T) {
	yes := true
	cash := 10000
	o := Options{Cheats: &yes, StartingCash: &cash, TechLevel: "unrestricted"}

	s := LobbySettings{
		Cheats:       false,
		Crates:       true, // server default, must survive
		Fog:          true,
		StartingCash: 5000,
		TechLevel:    "medium",
	}
	o.Apply(&s)

	if !s.Cheats {
		t.Fatal("set option not applied")
	}
	if !s.Crates || !s.Fog {
		t.Fatal("unset options must leave server defaults untouched")
	}
	if s.StartingCash != 10000 || s.TechLevel != "unrestricted" {
		t.Fatalf("overrides: %+v", s)
	}
}

func TestOptions_DescriptorRoundTrip(t *testing.T) {
	desc := "MapFormat: 6\nTitle: x\nAuthor: x\nTileset: t\nSelectable: true\nUseAsShellmap: false\nMapSize: 2,2\nBounds: 0,0,2,2\n" +
		"Options:\n  Cheats: true\n  StartingCash: 7500\n  Difficulties: easy,hard\n"
	path := writeTestMap(t, desc, testBin(t, 2, 2), nil)

	m, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	o := m.Options
	if o.Cheats == nil || !*o.Cheats {
		t.Fatalf("Cheats: %+v", o.Cheats)
	}
	if o.Crates != nil || o.Fog != nil || o.Shroud != nil {
		t.Fatal("absent keys must stay unset")
	}
	if o.StartingCash == nil || *o.StartingCash != 7500 {
		t.Fatalf("StartingCash: %+v", o.StartingCash)
	}
	if len(o.Difficulties) != 2 || o.Difficulties[0] != "easy" || o.Difficulties[1] != "hard" {
		t.Fatalf("Difficulties: %v", o.Difficulties)
	}

	if err := m.Save(m.Path()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m2, err := Load(m.Path(), "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if m2.Options.Cheats == nil || !*m2.Options.Cheats || m2.Options.Crates != nil {
		t.Fatalf("options after round trip: %+v", m2.Options)
	}
}
