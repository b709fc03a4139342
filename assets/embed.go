// Package assets embeds the SQL migrations shipped with the server.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var FS embed.FS

// Migration is one embedded SQL script.
type Migration struct {
	Name string // e.g. "sql/0001_kv.sql"
	SQL  string
}

// Migrations returns the embedded scripts in lexical (apply) order.
func Migrations() ([]Migration, error) {
	var out []Migration
	err := fs.WalkDir(FS, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		b, err := FS.ReadFile(path)
		if err != nil {
			return err
		}
		out = append(out, Migration{Name: path, SQL: string(b)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
