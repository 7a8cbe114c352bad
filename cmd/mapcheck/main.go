package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"mapvault.dev/internal/mapcache"
	"mapvault.dev/internal/mapgen"
	"mapvault.dev/internal/tilemap"
	"mapvault.dev/internal/tileset"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "info":
			infoCmd(os.Args[2:])
			return
		case "hash":
			hashCmd(os.Args[2:])
			return
		case "check":
			checkCmd(os.Args[2:])
			return
		case "upgrade":
			upgradeCmd(os.Args[2:])
			return
		case "resave":
			resaveCmd(os.Args[2:])
			return
		case "index":
			indexCmd(os.Args[2:])
			return
		case "gen":
			genCmd(os.Args[2:])
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: mapcheck <info|hash|check|upgrade|resave|index|gen> [flags]")
	os.Exit(2)
}

func loadMap(path, mod string) *tilemap.Map {
	if strings.TrimSpace(path) == "" {
		fmt.Fprintln(os.Stderr, "missing -map")
		os.Exit(2)
	}
	m, err := tilemap.Load(path, mod)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
	return m
}

func infoCmd(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	mapPath := fs.String("map", "", "map container (zip file or directory)")
	mod := fs.String("mod", "", "mod id stamped when upgrading a legacy descriptor")
	_ = fs.Parse(args)

	m := loadMap(*mapPath, *mod)
	fmt.Printf("uid:      %s\n", m.UID())
	fmt.Printf("title:    %s\n", m.Title)
	fmt.Printf("author:   %s\n", m.Author)
	fmt.Printf("tileset:  %s\n", m.Tileset)
	fmt.Printf("format:   %d\n", m.Format)
	if m.RequiresMod != "" {
		fmt.Printf("mod:      %s\n", m.RequiresMod)
	}
	fmt.Printf("size:     %d,%d\n", m.Width, m.Height)
	fmt.Printf("bounds:   %s\n", m.Bounds)
	fmt.Printf("players:  %d\n", m.Players.Len())
	fmt.Printf("actors:   %d\n", m.Actors().Len())
	fmt.Printf("smudges:  %d\n", len(m.Smudges()))
	fmt.Printf("spawns:   %d\n", len(m.SpawnPoints()))
}

func hashCmd(args []string) {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	mapPath := fs.String("map", "", "map container (zip file or directory)")
	mod := fs.String("mod", "", "mod id stamped when upgrading a legacy descriptor")
	_ = fs.Parse(args)

	fmt.Println(loadMap(*mapPath, *mod).UID())
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	mapPath := fs.String("map", "", "map container (zip file or directory)")
	mod := fs.String("mod", "", "mod id stamped when upgrading a legacy descriptor")
	_ = fs.Parse(args)

	m := loadMap(*mapPath, *mod)
	if err := m.ValidatePlacements(); err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func upgradeCmd(args []string) {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	mapPath := fs.String("map", "", "map container (zip file or directory)")
	mod := fs.String("mod", "", "mod id stamped into the upgraded descriptor")
	_ = fs.Parse(args)

	if strings.TrimSpace(*mod) == "" {
		fmt.Fprintln(os.Stderr, "missing -mod")
		os.Exit(2)
	}
	// Load normalizes legacy containers in place.
	m := loadMap(*mapPath, *mod)
	fmt.Printf("format %d, uid %s\n", m.Format, m.UID())
}

func resaveCmd(args []string) {
	fs := flag.NewFlagSet("resave", flag.ExitOnError)
	mapPath := fs.String("map", "", "map container (zip file or directory)")
	mod := fs.String("mod", "", "mod id stamped when upgrading a legacy descriptor")
	outPath := fs.String("out", "", "output container (defaults to in place)")
	_ = fs.Parse(args)

	m := loadMap(*mapPath, *mod)
	dst := strings.TrimSpace(*outPath)
	if dst == "" {
		dst = m.Path()
	}
	if err := m.Save(dst); err != nil {
		fmt.Fprintln(os.Stderr, "save:", err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", m.UID(), dst)
}

func indexCmd(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	dbPath := fs.String("db", "./maps.db", "sqlite index path")
	dir := fs.String("dir", "./maps", "directory scanned for map containers")
	mod := fs.String("mod", "", "mod id stamped when upgrading legacy descriptors")
	_ = fs.Parse(args)

	ix, err := mapcache.Open(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer ix.Close()

	indexed, err := ix.Scan(*dir, *mod)
	if err != nil {
		fmt.Fprintln(os.Stderr, "index:", err)
		os.Exit(1)
	}
	fmt.Printf("indexed %d maps into %s\n", indexed, *dbPath)
}

func genCmd(args []string) {
	cfg := mapgen.DefaultConfig()

	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	tsPath := fs.String("tileset", "", "tileset catalog yaml")
	outPath := fs.String("out", "", "output container (zip file or directory)")
	fs.IntVar(&cfg.Width, "w", cfg.Width, "map width in cells")
	fs.IntVar(&cfg.Height, "h", cfg.Height, "map height in cells")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generation seed (0 = random)")
	fs.IntVar(&cfg.Spawns, "spawns", cfg.Spawns, "spawn point count")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "map title")
	fs.StringVar(&cfg.Author, "author", cfg.Author, "map author")
	_ = fs.Parse(args)

	if strings.TrimSpace(*tsPath) == "" || strings.TrimSpace(*outPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -tileset or -out")
		os.Exit(2)
	}
	ts, err := tileset.Load(*tsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tileset:", err)
		os.Exit(1)
	}
	m, err := mapgen.Generate(ts, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate:", err)
		os.Exit(1)
	}
	if err := m.Save(*outPath); err != nil {
		fmt.Fprintln(os.Stderr, "save:", err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", m.UID(), *outPath)
}
