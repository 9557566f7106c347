package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// RunOutcar parses a completed calculation directory and prints the result
// summary as JSON.
func RunOutcar(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	parser := &vaspio.OutcarParser{Dir: dir}
	summary, err := parser.Summary()
	if err != nil {
		log.Fatalf("parse %s: %v", dir, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatal(err)
	}
}
