package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// PutNode inserts or replaces node by id, atomically. The node's own
// Relations field is not persisted here - relations are a separate
// table, written via PutRelation.
func (s *Store) PutNode(n types.OntologicalNode) error {
	timer := logging.StartTimer(logging.CategoryStore, "PutNode")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ephemeral {
		stored := n
		stored.Relations = nil
		s.memNodes[n.ID] = stored
		return nil
	}

	blob, err := marshalNode(n)
	if err != nil {
		return fmt.Errorf("store: marshal node: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO nodes (id, blob, created_at, trinity_e, trinity_g, trinity_t, c_real, c_imag, label)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   blob=excluded.blob, created_at=excluded.created_at,
		   trinity_e=excluded.trinity_e, trinity_g=excluded.trinity_g, trinity_t=excluded.trinity_t,
		   c_real=excluded.c_real, c_imag=excluded.c_imag, label=excluded.label`,
		n.ID, blob, float64(n.CreatedAt.UnixNano())/1e9,
		n.Trinity.E, n.Trinity.G, n.Trinity.T,
		n.Position.CReal, n.Position.CImag, n.Label,
	)
	if err != nil {
		return fmt.Errorf("store: put node: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// GetNode returns the node with its outgoing relations populated, or
// (zero, false) if absent. A corrupted blob is logged and treated as
// absent.
func (s *Store) GetNode(id string) (types.OntologicalNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ephemeral {
		n, ok := s.memNodes[id]
		if !ok {
			return types.OntologicalNode{}, false
		}
		n.Relations = s.outgoingRelationsLocked(id)
		return n, true
	}

	row := s.db.QueryRow(`SELECT blob FROM nodes WHERE id = ?`, id)
	var blob string
	if err := row.Scan(&blob); err != nil {
		if err != sql.ErrNoRows {
			logging.StoreError("get node %s: %v", id, err)
		}
		return types.OntologicalNode{}, false
	}

	n, err := unmarshalNode(blob)
	if err != nil {
		logging.StoreWarn("corrupted node blob for id=%s: %v; treating as absent", id, err)
		return types.OntologicalNode{}, false
	}
	n.Relations = s.outgoingRelationsLocked(id)
	return n, true
}

// DeleteNode removes node and cascades relations referencing it,
// preserving referential integrity.
func (s *Store) DeleteNode(id string) error {
	timer := logging.StartTimer(logging.CategoryStore, "DeleteNode")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ephemeral {
		delete(s.memNodes, id)
		for rid, r := range s.memRelations {
			if r.SourceID == id || r.TargetID == id {
				delete(s.memRelations, rid)
			}
		}
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM relations WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
		return fmt.Errorf("store: cascade delete relations: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete node: %w", err)
	}
	return tx.Commit()
}

// FindByLabel returns up to limit ids whose label contains substring,
// case-insensitively. limit <= 0 means unbounded.
func (s *Store) FindByLabel(substring string, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(substring)

	if s.ephemeral {
		var ids []string
		for id, n := range s.memNodes {
			if strings.Contains(strings.ToLower(n.Label), lowered) {
				ids = append(ids, id)
				if limit > 0 && len(ids) >= limit {
					break
				}
			}
		}
		return ids
	}

	query := `SELECT id FROM nodes WHERE LOWER(label) LIKE '%' || ? || '%'`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(query, lowered)
	if err != nil {
		logging.StoreError("find by label: %v", err)
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) nodeExistsLocked(id string) bool {
	if s.ephemeral {
		_, ok := s.memNodes[id]
		return ok
	}
	row := s.db.QueryRow(`SELECT 1 FROM nodes WHERE id = ?`, id)
	var one int
	return row.Scan(&one) == nil
}

func marshalNode(n types.OntologicalNode) (string, error) {
	stored := n
	stored.Relations = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalNode(blob string) (types.OntologicalNode, error) {
	var n types.OntologicalNode
	if err := json.Unmarshal([]byte(blob), &n); err != nil {
		return types.OntologicalNode{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return n, nil
}
