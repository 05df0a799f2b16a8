package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    name TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    dataset_name TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_balance REAL NOT NULL,
    interaction_sum REAL,
    interaction_type TEXT NOT NULL,
    transaction_commission REAL,
    country TEXT NOT NULL,
    device TEXT NOT NULL,
    date INTEGER NOT NULL,
    FOREIGN KEY (dataset_name) REFERENCES datasets(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_events_dataset ON events(dataset_name, date);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
