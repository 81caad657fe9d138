package postgres

// SQL queries for PostgreSQL catalog introspection.
// Tables are resolved in current_schema(), which is where unqualified
// names used by the generated statements land.
const (
	queryListTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type = 'BASE TABLE'`

	queryTableExists = `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			  AND table_type = 'BASE TABLE'
			  AND table_name = $1
		)`

	queryDatabaseName = `SELECT current_database()`
)
