// Package mapcache maintains a sqlite index of map containers keyed by
// their content uid, so lobby-style listings do not have to reopen and
// re-hash every container on disk.
package mapcache

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"mapvault.dev/internal/tilemap"
)

// Record is one indexed map. Descriptor bytes are stored zstd-compressed
// alongside it and returned by Get.
type Record struct {
	UID       string
	Path      string
	Title     string
	Author    string
	Tileset   string
	Width     int
	Height    int
	Players   int
	Format    int
	UpdatedAt string
}

type Index struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db, enc: enc, dec: dec}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL keeps re-index passes cheap; NORMAL is fine for a rebuildable index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS maps (
			uid TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			tileset TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			players INTEGER NOT NULL,
			format INTEGER NOT NULL,
			descriptor_zst BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_maps_title ON maps(title, uid);`,
		`CREATE INDEX IF NOT EXISTS idx_maps_path ON maps(path);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (ix *Index) Close() error {
	ix.enc.Close()
	ix.dec.Close()
	return ix.db.Close()
}

// Put indexes a loaded map under its uid, replacing any previous row for
// the same uid.
func (ix *Index) Put(m *tilemap.Map) error {
	if m.UID() == "" {
		return fmt.Errorf("mapcache: map has no uid (not loaded from disk?)")
	}
	desc, err := m.MarshalDescriptor()
	if err != nil {
		return err
	}
	playable := 0
	for _, p := range m.Players.All() {
		if p.Playable {
			playable++
		}
	}
	_, err = ix.db.Exec(
		`INSERT OR REPLACE INTO maps(uid,path,title,author,tileset,width,height,players,format,descriptor_zst,updated_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		m.UID(), m.Path(), m.Title, m.Author, m.Tileset,
		m.Width, m.Height, playable, m.Format,
		ix.enc.EncodeAll(desc, nil),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("mapcache: put %s: %w", m.UID(), err)
	}
	return nil
}

// Get returns the record and decompressed descriptor bytes for uid.
// A missing uid reports sql.ErrNoRows.
func (ix *Index) Get(uid string) (Record, []byte, error) {
	var r Record
	var blob []byte
	err := ix.db.QueryRow(
		`SELECT uid,path,title,author,tileset,width,height,players,format,descriptor_zst,updated_at
		 FROM maps WHERE uid = ?`, uid,
	).Scan(&r.UID, &r.Path, &r.Title, &r.Author, &r.Tileset,
		&r.Width, &r.Height, &r.Players, &r.Format, &blob, &r.UpdatedAt)
	if err != nil {
		return Record{}, nil, err
	}
	desc, err := ix.dec.DecodeAll(blob, nil)
	if err != nil {
		return Record{}, nil, fmt.Errorf("mapcache: descriptor for %s: %w", uid, err)
	}
	return r, desc, nil
}

// List returns all records ordered by title then uid.
func (ix *Index) List() ([]Record, error) {
	rows, err := ix.db.Query(
		`SELECT uid,path,title,author,tileset,width,height,players,format,updated_at
		 FROM maps ORDER BY title, uid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.UID, &r.Path, &r.Title, &r.Author, &r.Tileset,
			&r.Width, &r.Height, &r.Players, &r.Format, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes the row for uid. Deleting an unknown uid is not an error.
func (ix *Index) Delete(uid string) error {
	_, err := ix.db.Exec(`DELETE FROM maps WHERE uid = ?`, uid)
	return err
}

// Scan indexes every map container found directly under dir: zip files
// and subdirectories. Unloadable entries are logged and skipped. Returns
// the number of maps indexed.
func (ix *Index) Scan(dir, upgradeMod string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	indexed := 0
	for _, e := range entries {
		if !e.IsDir() && !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		m, err := tilemap.Load(path, upgradeMod)
		if err != nil {
			log.Printf("mapcache: skip %s: %v", path, err)
			continue
		}
		if err := ix.Put(m); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}
