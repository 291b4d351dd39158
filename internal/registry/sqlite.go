package registry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tracewire/svcgraph/internal/types"
)

// SQLiteRegistry is a Registry backed by modernc.org/sqlite (pure Go, no
// cgo) — the persistent form, for a registry that must outlive one pipeline
// run or be shared across a federated set of repositories. Matching runs in
// Go against the rows loaded for one service, using the exact same
// bestMatch logic MemoryRegistry uses, so the two backends can never
// disagree on what matches (see parity_test.go).
type SQLiteRegistry struct {
	db *sql.DB
}

// OpenSQLiteRegistry opens (creating if necessary) a SQLite-backed registry
// at dbPath. Use ":memory:" for a process-local, non-persistent instance.
func OpenSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	r := &SQLiteRegistry{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init registry schema: %w", err)
	}
	return r, nil
}

// Close releases the underlying database connection.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

func (r *SQLiteRegistry) initSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS routes (
			service          TEXT NOT NULL,
			method           TEXT NOT NULL,
			path             TEXT NOT NULL,
			handler_file     TEXT NOT NULL,
			handler_function TEXT NOT NULL,
			line_number      INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_routes_service ON routes(service);
	`)
	return err
}

// AddRoutes replaces service's complete route set in one transaction —
// spec §4.3's "replaces... atomically" contract.
func (r *SQLiteRegistry) AddRoutes(service string, routes []types.RouteDefinition) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM routes WHERE service = ?`, service); err != nil {
		return fmt.Errorf("clear routes for %s: %w", service, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO routes (service, method, path, handler_file, handler_function, line_number) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, route := range routes {
		if _, err := stmt.Exec(service, route.Method, route.Path, route.HandlerFile, route.HandlerFunction, route.LineNumber); err != nil {
			return fmt.Errorf("insert route %s %s: %w", route.Method, route.Path, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRegistry) GetRoutes(service string) ([]types.RouteDefinition, error) {
	rows, err := r.db.Query(`SELECT method, path, handler_file, handler_function, line_number FROM routes WHERE service = ?`, service)
	if err != nil {
		return nil, fmt.Errorf("query routes for %s: %w", service, err)
	}
	defer rows.Close()

	var routes []types.RouteDefinition
	for rows.Next() {
		var route types.RouteDefinition
		route.Service = service
		if err := rows.Scan(&route.Method, &route.Path, &route.HandlerFile, &route.HandlerFunction, &route.LineNumber); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *SQLiteRegistry) FindRouteByRequest(service, method, requestPath string) (types.RouteDefinition, bool, error) {
	routes, err := r.GetRoutes(service)
	if err != nil {
		return types.RouteDefinition{}, false, err
	}
	route, ok := bestMatch(routes, method, requestPath)
	return route, ok, nil
}

func (r *SQLiteRegistry) AllServices() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT service FROM routes ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *SQLiteRegistry) Clear(service string) error {
	if service == "" {
		_, err := r.db.Exec(`DELETE FROM routes`)
		return err
	}
	_, err := r.db.Exec(`DELETE FROM routes WHERE service = ?`, service)
	return err
}
