// cmd/migrate/main.go
// Imports teams and cars from the legacy MySQL rally database into PostgreSQL.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/rally?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/rallyhq/rallyapi/config"
	bundb "github.com/rallyhq/rallyapi/db"
	"github.com/rallyhq/rallyapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/rally?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"teams", func() (int, error) { return migrateTeams(ctx, myDB, pgDB) }},
		{"cars", func() (int, error) { return migrateCars(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-8s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, password FROM users")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.User
	total := 0
	for rows.Next() {
		var r models.User
		if err := rows.Scan(&r.ID, &r.Username, &r.Password); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTeams(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT teamID, teamName, members, budget FROM teams")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Team
	total := 0
	for rows.Next() {
		var r models.Team
		var members sql.NullString
		if err := rows.Scan(&r.TeamID, &r.TeamName, &members, &r.Budget); err != nil {
			return total, err
		}
		r.Members = members.String
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateCars(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT carID, teamID, carName, topSpeedKmh, acceleration0100s,
		        handling, reliability, weightKg
		 FROM cars`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Car
	total := 0
	for rows.Next() {
		var r models.Car
		var weight sql.NullInt64
		if err := rows.Scan(&r.CarID, &r.TeamID, &r.CarName, &r.TopSpeedKMH,
			&r.Acceleration0100S, &r.Handling, &r.Reliability, &weight); err != nil {
			return total, err
		}
		if weight.Valid {
			w := int(weight.Int64)
			r.WeightKG = &w
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// resetSequences bumps each serial sequence past the migrated ids so new
// inserts don't collide.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ table, col string }{
		{"users", "id"},
		{"teams", "team_id"},
		{"cars", "car_id"},
	}
	for _, s := range seqs {
		stmt := `SELECT setval(pg_get_serial_sequence('` + s.table + `', '` + s.col + `'),
			COALESCE((SELECT MAX(` + s.col + `) FROM ` + s.table + `), 1))`
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			log.Printf("reset sequence %s.%s: %v", s.table, s.col, err)
		}
	}
}
