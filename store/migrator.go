package store

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/Bylo24/moodtracker/internal/version"
)

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST.sql"

// Migrate brings the database schema up to date. A fresh database gets the
// latest schema in one shot; an existing one replays the versioned
// migration folders newer than what migration_history records.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if err := s.ensureMigrationHistoryTable(ctx); err != nil {
			return err
		}
		// Record the newest known version so old migrations never replay.
		return s.recordMigration(ctx, s.latestMigrationVersion())
	}

	if err := s.ensureMigrationHistoryTable(ctx); err != nil {
		return err
	}
	applied, err := s.appliedMigrationVersions(ctx)
	if err != nil {
		return err
	}

	pending := make([]string, 0)
	for _, v := range s.migrationVersions() {
		if _, ok := applied[v]; !ok {
			pending = append(pending, v)
		}
	}
	sort.Sort(version.SortVersion(pending))

	for _, v := range pending {
		if err := s.applyMigrationVersion(ctx, v); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", v)
		}
		if err := s.recordMigration(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) migrationDir() string {
	return path.Join("migration", s.profile.Driver)
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	buf, err := migrationFS.ReadFile(path.Join(s.migrationDir(), latestSchemaFileName))
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema for driver %q", s.profile.Driver)
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute latest schema")
	}
	return nil
}

// migrationVersions lists the versioned folders available for the active
// driver, unsorted.
func (s *Store) migrationVersions() []string {
	entries, err := fs.ReadDir(migrationFS, s.migrationDir())
	if err != nil {
		return nil
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	return versions
}

func (s *Store) latestMigrationVersion() string {
	versions := s.migrationVersions()
	if len(versions) == 0 {
		return version.GetSchemaVersion(version.Version)
	}
	sort.Sort(version.SortVersion(versions))
	return versions[len(versions)-1]
}

func (s *Store) applyMigrationVersion(ctx context.Context, v string) error {
	dir := path.Join(s.migrationDir(), v)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read migration dir %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		buf, err := migrationFS.ReadFile(path.Join(dir, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", name)
		}
		if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to execute migration file %s", name)
		}
	}
	return nil
}

func (s *Store) ensureMigrationHistoryTable(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS migration_history (
		version TEXT NOT NULL PRIMARY KEY,
		created_ts BIGINT NOT NULL
	)`
	if _, err := s.driver.GetDB().ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to ensure migration_history table")
	}
	return nil
}

func (s *Store) appliedMigrationVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.driver.GetDB().QueryContext(ctx, "SELECT version FROM migration_history")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query migration history")
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "failed to scan migration history row")
		}
		applied[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate migration history")
	}
	return applied, nil
}

func (s *Store) recordMigration(ctx context.Context, v string) error {
	stmt := "INSERT INTO migration_history (version, created_ts) VALUES (?, ?)"
	if s.profile.Driver == "postgres" {
		stmt = "INSERT INTO migration_history (version, created_ts) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING"
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, stmt, v, time.Now().Unix()); err != nil {
		return errors.Wrapf(err, "failed to record migration %s", v)
	}
	return nil
}

// CurrentSchemaVersion reports the newest applied migration, for startup
// logging.
func (s *Store) CurrentSchemaVersion(ctx context.Context) (string, error) {
	applied, err := s.appliedMigrationVersions(ctx)
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", nil
	}
	versions := make([]string, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Sort(version.SortVersion(versions))
	return versions[len(versions)-1], nil
}
