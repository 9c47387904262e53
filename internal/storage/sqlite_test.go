package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestUpSection(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"no markers", "CREATE TABLE a (x);", "CREATE TABLE a (x);"},
		{"up only", "-- +migrate Up\nCREATE TABLE a (x);", "CREATE TABLE a (x);"},
		{"up and down", "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;", "CREATE TABLE a (x);"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := strings.TrimSpace(UpSection(tc.in)); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "m.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/0001_a.sql":   {Data: []byte("-- +migrate Up\nCREATE TABLE a (x TEXT);\n-- +migrate Down\nDROP TABLE a;\n")},
		"m/0002_b.sql":   {Data: []byte("INSERT INTO a (x) VALUES ('one');")},
		"m/README.md":    {Data: []byte("not a migration")},
		"m/0003_bad.sql": {Data: []byte("-- +migrate Up\nINSERT INTO nope VALUES (1);")},
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, fsys, "m"); err == nil || !strings.Contains(err.Error(), "0003_bad.sql") {
		t.Fatalf("bad migration error = %v", err)
	}

	delete(fsys, "m/0003_bad.sql")
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(ctx, db, fsys, "m"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	var rows, applied int
	if err := db.QueryRow(`SELECT COUNT(*) FROM a`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("0002 ran %d times", rows)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 2 {
		t.Fatalf("recorded %d migrations", applied)
	}
}

func TestMigrateEmbedded(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "discdle.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	for _, table := range []string{"player_flags", "game_results"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n); err != nil || n != 1 {
			t.Fatalf("table %s missing (%v)", table, err)
		}
	}
}
