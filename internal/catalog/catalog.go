// The catalog package indexes the zone header files of a directory tree.
//
// The index is kept in an SQLite database. For each header file it records
// the world offset of the zone, so that zones can be listed by position
// without reading every file again. XML exports of zones are cached in the
// same database, keyed by a digest of the zone's files and compressed with
// LZ4.
package catalog

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lz4 "github.com/bkaradzic/go-lz4"
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
	"github.com/clarosa/srzone/zonebin"
	"github.com/clarosa/srzone/zonexml"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"
)

// Zone is the catalog entry of one header file.
type Zone struct {
	// Path is the location of the header file.
	Path string
	// Name is the file name without extension.
	Name     string
	Digest   string
	Offset   srzone.Vector3
	ZoneType srzone.ZoneType
	MeshRefs int
}

// Catalog is an open zone index.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the database at path. A path of ":memory:" opens a
// temporary database.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists only within one connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			zones
		(
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			digest TEXT NOT NULL,
			x REAL,
			y REAL,
			z REAL,
			zoneType INTEGER,
			meshRefs INTEGER
		);
		CREATE TABLE IF NOT EXISTS
			exports
		(
			digest TEXT PRIMARY KEY,
			size INTEGER,
			content BLOB
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func digest(files ...[]byte) string {
	h, _ := blake2b.New256(nil)
	for _, b := range files {
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func dataPath(header string) string {
	ext := filepath.Ext(header)
	return header[:len(header)-len(ext)] + ".czn_pc"
}

// Scan replaces the contents of the index with the header files found under
// each root. Files that cannot be read are skipped and reported in warn.
func (c *Catalog) Scan(roots ...string) (warn, err error) {
	var zones []Zone
	for _, root := range roots {
		z, w, err := walkZones(root)
		warn = errors.Union(warn, w)
		if err != nil {
			return warn, err
		}
		zones = append(zones, z...)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return warn, err
	}
	if _, err = tx.Exec(`DELETE FROM zones`); err != nil {
		tx.Rollback()
		return warn, err
	}
	for _, z := range zones {
		_, err = tx.Exec(`
			INSERT INTO
				zones
					(
						path, name, digest, x, y, z, zoneType, meshRefs
					)
			VALUES
					(?, ?, ?, ?, ?, ?, ?, ?)
		`, z.Path, z.Name, z.Digest, z.Offset.X, z.Offset.Y, z.Offset.Z, int(z.ZoneType), z.MeshRefs)
		if err != nil {
			tx.Rollback()
			return warn, err
		}
	}
	return warn, tx.Commit()
}

func walkZones(root string) (zones []Zone, warn, err error) {
	var warns errors.Errors
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if d.IsDir() || !strings.EqualFold(ext, ".czh_pc") {
			return nil
		}
		zone, err := readZone(path)
		if err != nil {
			warns = warns.Append(fmt.Errorf("%s: %w", path, err))
			return nil
		}
		zones = append(zones, zone)
		return nil
	})
	return zones, warns.Return(), err
}

func readZone(path string) (z Zone, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return z, err
	}
	h, err := zonebin.Decoder{}.DecodeHeader(bytes.NewReader(b))
	if err != nil {
		return z, err
	}
	base := filepath.Base(path)
	z.Path = path
	z.Name = base[:len(base)-len(filepath.Ext(base))]
	z.Digest = digest(b)
	z.Offset = h.WorldZone.Offset
	z.ZoneType = h.WorldZone.ZoneType
	z.MeshRefs = len(h.WorldZone.MeshReferences)
	return z, nil
}

const selectZones = `
	SELECT
		path,
		name,
		digest,
		x, y, z,
		zoneType,
		meshRefs
	FROM
		zones
`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanZone(row scanner) (z Zone, err error) {
	var zoneType int
	err = row.Scan(
		&z.Path,
		&z.Name,
		&z.Digest,
		&z.Offset.X, &z.Offset.Y, &z.Offset.Z,
		&zoneType,
		&z.MeshRefs,
	)
	z.ZoneType = srzone.ZoneType(zoneType)
	return z, err
}

// Zones returns every indexed zone, ordered by path.
func (c *Catalog) Zones() ([]Zone, error) {
	rows, err := c.db.Query(selectZones + `ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// Zone returns the zone with the given name. If more than one zone has the
// name, the one with the first path is returned. Returns nil if there is no
// such zone.
func (c *Catalog) Zone(name string) (*Zone, error) {
	row := c.db.QueryRow(selectZones+`WHERE name = ? ORDER BY path LIMIT 1`, name)
	z, err := scanZone(row)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &z, nil
}

// Export returns the XML form of a zone. The data file beside the header
// file is included when present.
func (c *Catalog) Export(z *Zone) ([]byte, error) {
	header, err := os.ReadFile(z.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(dataPath(z.Path))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sum := digest(header, data)

	if b, err := c.cachedExport(sum); err != nil || b != nil {
		return b, err
	}

	f := &srzone.File{}
	if f.Header, err = (zonebin.Decoder{}).DecodeHeader(bytes.NewReader(header)); err != nil {
		return nil, err
	}
	if data != nil {
		if f.Data, err = (zonebin.Decoder{}).DecodeData(bytes.NewReader(data), f.Header); err != nil {
			return nil, err
		}
	}
	var x bytes.Buffer
	if err := zonexml.Encode(&x, f); err != nil {
		return nil, err
	}
	if err := c.saveExport(sum, x.Bytes()); err != nil {
		return nil, err
	}
	return x.Bytes(), nil
}

func (c *Catalog) cachedExport(sum string) ([]byte, error) {
	row := c.db.QueryRow(`
	SELECT
		size,
		content
	FROM
		exports
	WHERE
		digest = ?`, sum)

	var size int
	var content []byte
	err := row.Scan(&size, &content)
	if err == sql.ErrNoRows {
		log.Printf("[cachedExport] not found %v", sum)
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	b, err := lz4.Decode(nil, content)
	if err != nil {
		return nil, fmt.Errorf("decompress export: %w", err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("decompress export: expected %d bytes, got %d", size, len(b))
	}
	return b, nil
}

func (c *Catalog) saveExport(sum string, b []byte) error {
	log.Printf("[saveExport] %v (%d bytes)", sum, len(b))

	content, err := lz4.Encode(nil, b)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO
			exports
				(
					digest, size, content
				)
		VALUES
				(?, ?, ?)
	`, sum, len(b), content)
	return err
}

// Located returns the zones that are not at the world origin.
func Located(zones []Zone) []Zone {
	located := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if z.Offset != (srzone.Vector3{}) {
			located = append(located, z)
		}
	}
	return located
}

// SortByPosition sorts zones by X, then Z, then Y.
func SortByPosition(zones []Zone) {
	sort.SliceStable(zones, func(i, j int) bool {
		a, b := zones[i].Offset, zones[j].Offset
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})
}

// DistanceSquared returns the squared distance from the zone to the point
// (x, z) on the ground plane.
func (zone Zone) DistanceSquared(x, z float64) float64 {
	dx := float64(zone.Offset.X) - x
	dz := float64(zone.Offset.Z) - z
	return dx*dx + dz*dz
}

// SortByDistance sorts zones by their distance from the point (x, z) on the
// ground plane, closest first.
func SortByDistance(zones []Zone, x, z float64) {
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].DistanceSquared(x, z) < zones[j].DistanceSquared(x, z)
	})
}
