package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	blob TEXT NOT NULL,
	created_at REAL NOT NULL,
	trinity_e REAL NOT NULL,
	trinity_g REAL NOT NULL,
	trinity_t REAL NOT NULL,
	c_real REAL NOT NULL,
	c_imag REAL NOT NULL,
	label TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nodes_created_at ON nodes(created_at);
CREATE INDEX IF NOT EXISTS idx_nodes_trinity ON nodes(trinity_e, trinity_g, trinity_t);
CREATE INDEX IF NOT EXISTS idx_nodes_complex ON nodes(c_real, c_imag);
CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label);

CREATE TABLE IF NOT EXISTS relations (
	id TEXT PRIMARY KEY,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	weight REAL NOT NULL,
	metadata TEXT,
	FOREIGN KEY(source_id) REFERENCES nodes(id) ON DELETE CASCADE,
	FOREIGN KEY(target_id) REFERENCES nodes(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source_id);
CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_id);
CREATE INDEX IF NOT EXISTS idx_relations_kind ON relations(kind);
`

// initSchema creates the nodes/relations tables if absent, and enables
// foreign-key cascade enforcement (off by default in sqlite3).
func (s *Store) initSchema() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return err
	}
	_, err := s.db.Exec(schemaSQL)
	return err
}
