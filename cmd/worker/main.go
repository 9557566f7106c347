package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker generate <workflow> [outDir] | outcar <dir>")
	}

	switch os.Args[1] {
	case "generate":
		RunGenerate(os.Args[2:])
	case "outcar":
		RunOutcar(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
