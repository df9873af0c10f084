// Package migrations embeds the schema SQL files and applies them in order.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const (
	Up   = "up"
	Down = "down"
)

// Files lists the embedded migration file names for direction, in the order
// they run.
func Files(direction string) ([]string, error) {
	return filesIn(files, direction)
}

func filesIn(fsys fs.FS, direction string) ([]string, error) {
	if direction != Up && direction != Down {
		return nil, fmt.Errorf("direction must be %q or %q, got %q", Up, Down, direction)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), fmt.Sprintf(".%s.sql", direction)) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	if direction == Down {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	return names, nil
}

// Apply runs every migration for direction and returns the names it ran.
// On failure the names applied before the failing file are returned.
func Apply(db *sql.DB, direction string) ([]string, error) {
	return ApplyFS(db, files, direction)
}

// ApplyFS is Apply over the *.sql files at the root of fsys.
func ApplyFS(db *sql.DB, fsys fs.FS, direction string) ([]string, error) {
	names, err := filesIn(fsys, direction)
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return names[:i], fmt.Errorf("read migration file %s: %w", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return names[:i], fmt.Errorf("execute migration %s: %w", name, err)
		}
	}

	return names, nil
}
