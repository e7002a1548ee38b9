package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/clarosa/srzone/internal/catalog"
	"github.com/julienschmidt/httprouter"
)

type app struct {
	catalog    *catalog.Catalog
	dirs       []string
	httpRouter *httprouter.Router
}

func newApp(c *catalog.Catalog, dirs ...string) *app {
	app := &app{catalog: c, dirs: dirs}
	app.initHTTP()
	return app
}

func (app *app) initHTTP() {
	app.httpRouter = httprouter.New()
	app.httpRouter.GET("/v1/zones", app.listZones)
	app.httpRouter.GET("/v1/zones/:name", app.serveZone)
	app.httpRouter.POST("/v1/scan", app.serveScan)
}

func (app *app) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Printf("%v %v", req.Method, req.URL)

	app.httpRouter.ServeHTTP(w, req)
}

func (app *app) scan() error {
	warn, err := app.catalog.Scan(app.dirs...)
	if warn != nil {
		log.Printf("[scan] warning: %v", warn)
	}
	return err
}

type zoneEntry struct {
	Name     string  `json:"name"`
	File     string  `json:"file"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Z        float32 `json:"z"`
	ZoneType string  `json:"zoneType"`
	MeshRefs int     `json:"meshRefs"`
	Digest   string  `json:"digest"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{
		Error: msg,
	})
}

func (app *app) listZones(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	zones, err := app.catalog.Zones()
	if err != nil {
		writeError(w, 500, fmt.Sprintf("error during lookup of zones: %v", err))
		return
	}
	zones = catalog.Located(zones)

	query := r.URL.Query()
	if query.Get("x") != "" || query.Get("z") != "" {
		x, errX := strconv.ParseFloat(query.Get("x"), 64)
		z, errZ := strconv.ParseFloat(query.Get("z"), 64)
		if errX != nil || errZ != nil {
			writeError(w, 400, "x and z must both be numbers")
			return
		}
		catalog.SortByDistance(zones, x, z)
	} else {
		catalog.SortByPosition(zones)
	}

	entries := make([]zoneEntry, len(zones))
	for i, z := range zones {
		entries[i] = zoneEntry{
			Name:     z.Name,
			File:     filepath.Base(z.Path),
			X:        z.Offset.X,
			Y:        z.Offset.Y,
			Z:        z.Offset.Z,
			ZoneType: z.ZoneType.String(),
			MeshRefs: z.MeshRefs,
			Digest:   z.Digest,
		}
	}
	w.Header().Set("content-type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (app *app) serveZone(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	zone, err := app.catalog.Zone(name)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("error during lookup of zone %v: %v", name, err))
		return
	} else if zone == nil {
		writeError(w, 404, "zone not found")
		return
	}

	b, err := app.catalog.Export(zone)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("error during export of zone %v: %v", name, err))
		return
	}

	log.Printf("zone found: %v %v", zone.Name, zone.Path)

	w.Header().Set("content-type", "application/xml")
	w.Write(b)
}

func (app *app) serveScan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := app.scan(); err != nil {
		writeError(w, 500, fmt.Sprintf("error during scan: %v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
