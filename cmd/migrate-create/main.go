package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// migrationsDir must match the file:// source cmd/migrate reads from.
const migrationsDir = "db/migrations"

func main() {
	name := flag.String("name", "", "migration name, e.g. add_weather_data")
	flag.Parse()

	if *name == "" {
		log.Fatal("migration name is required")
	}
	if strings.ContainsAny(*name, " ") {
		log.Fatal("migration name must not contain spaces")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := filepath.Join(migrationsDir, fmt.Sprintf("%s_%s", version, *name))

	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}

	for _, stub := range []struct{ path, header string }{
		{base + ".up.sql", "-- up migration\n"},
		{base + ".down.sql", "-- down migration\n"},
	} {
		if err := writeStub(stub.path, stub.header); err != nil {
			log.Fatalf("create migration stub: %v", err)
		}
		log.Printf("created %s", stub.path)
	}
}

func writeStub(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
