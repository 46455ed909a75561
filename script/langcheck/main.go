package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quickwinstall/internal/common"
	"quickwinstall/internal/services"
)

func main() {
	dir := flag.String("dir", filepath.Join("res", "langs"), "language directory")
	strict := flag.Bool("strict", false, "exit with status 1 when keys are missing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := services.NewLocalizationStore(*dir, nil, services.WithLogger(logger))

	codes, err := languageFiles(*dir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking %d language(s) against %s in %s\n", len(codes), common.FallbackLanguage, *dir)

	total := 0
	for _, code := range codes {
		missing := store.MissingKeys(code)
		total += len(missing)
		if len(missing) == 0 {
			fmt.Printf("%s (%s): complete\n", code, store.DisplayName(code))
			continue
		}

		fmt.Printf("%s (%s): %d missing\n", code, store.DisplayName(code), len(missing))
		for _, key := range missing {
			fmt.Printf("  %s\n", key)
		}
	}

	if total > 0 && *strict {
		os.Exit(1)
	}
}

func languageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var codes []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		code := strings.TrimSuffix(name, filepath.Ext(name))
		if code != common.FallbackLanguage {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}
