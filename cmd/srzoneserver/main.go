// The srzoneserver command serves the zones of one or more directory trees
// over HTTP.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/clarosa/srzone/internal/catalog"
)

const usage = `usage: srzoneserver [OPTIONS] DIRECTORY...

Scans each DIRECTORY and its subdirectories for zone files, and serves them
over HTTP:

    GET  /v1/zones          list zones, sorted by position
    GET  /v1/zones?x=X&z=Z  list zones, sorted by distance from (X, Z)
    GET  /v1/zones/:name    XML form of the named zone
    POST /v1/scan           scan the directories again

Options:
`

func main() {
	var addr, dbPath string
	flag.StringVar(&addr, "addr", "localhost:7090", "address to listen on")
	flag.StringVar(&dbPath, "db", "srzone.db", "catalog database file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	c, err := catalog.Open(dbPath)
	if err != nil {
		log.Fatalf("couldn't open catalog: %v", err)
	}
	defer c.Close()

	app := newApp(c, flag.Args()...)
	if err := app.scan(); err != nil {
		log.Printf("[main] scan: %v", err)
		return
	}

	log.Printf("[main] listening on %s", addr)
	if err := http.ListenAndServe(addr, app); err != nil {
		log.Printf("[main] error: %v", err)
	}
}
