package store

import (
	"fmt"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// Direction selects which endpoint of a relation must match the queried
// id.
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
	DirectionBoth
)

// PutRelation inserts or replaces rel by id, atomically. Both endpoints
// must already exist; otherwise PutRelation fails with ErrMissingEndpoint
// even if the database itself would accept the row via deferred
// constraints.
func (s *Store) PutRelation(rel types.Relation) error {
	timer := logging.StartTimer(logging.CategoryStore, "PutRelation")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nodeExistsLocked(rel.SourceID) || !s.nodeExistsLocked(rel.TargetID) {
		return ErrMissingEndpoint
	}

	if s.ephemeral {
		s.memRelations[rel.ID] = rel
		return nil
	}

	metaJSON, err := marshalPayload(rel.Metadata)
	if err != nil {
		return fmt.Errorf("store: marshal relation metadata: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO relations (id, source_id, target_id, kind, weight, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   source_id=excluded.source_id, target_id=excluded.target_id,
		   kind=excluded.kind, weight=excluded.weight, metadata=excluded.metadata`,
		rel.ID, rel.SourceID, rel.TargetID, rel.Kind, rel.Weight, metaJSON,
	)
	if err != nil {
		return fmt.Errorf("store: put relation: %w", err)
	}
	return tx.Commit()
}

// ListRelations returns relations for id matching an optional kind
// filter and the given direction.
func (s *Store) ListRelations(id string, kind string, direction Direction) []types.Relation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ephemeral {
		var out []types.Relation
		for _, r := range s.memRelations {
			if !relationMatches(r, id, kind, direction) {
				continue
			}
			out = append(out, r)
		}
		return out
	}
	return s.outgoingOrDirectedLocked(id, kind, direction)
}

// outgoingRelationsLocked returns only the outgoing relations for id, used
// to populate OntologicalNode.Relations. Caller must hold s.mu.
func (s *Store) outgoingRelationsLocked(id string) []types.Relation {
	return s.outgoingOrDirectedLocked(id, "", DirectionOutgoing)
}

func relationMatches(r types.Relation, id, kind string, direction Direction) bool {
	switch direction {
	case DirectionOutgoing:
		if r.SourceID != id {
			return false
		}
	case DirectionIncoming:
		if r.TargetID != id {
			return false
		}
	default:
		if r.SourceID != id && r.TargetID != id {
			return false
		}
	}
	if kind != "" && r.Kind != kind {
		return false
	}
	return true
}

func (s *Store) outgoingOrDirectedLocked(id, kind string, direction Direction) []types.Relation {
	if s.ephemeral {
		var out []types.Relation
		for _, r := range s.memRelations {
			if relationMatches(r, id, kind, direction) {
				out = append(out, r)
			}
		}
		return out
	}

	var query string
	args := []interface{}{id}
	switch direction {
	case DirectionOutgoing:
		query = `SELECT id, source_id, target_id, kind, weight, metadata FROM relations WHERE source_id = ?`
	case DirectionIncoming:
		query = `SELECT id, source_id, target_id, kind, weight, metadata FROM relations WHERE target_id = ?`
	default:
		query = `SELECT id, source_id, target_id, kind, weight, metadata FROM relations WHERE source_id = ? OR target_id = ?`
		args = append(args, id)
	}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		logging.StoreError("list relations: %v", err)
		return nil
	}
	defer rows.Close()

	var out []types.Relation
	for rows.Next() {
		var r types.Relation
		var metaJSON string
		if err := rows.Scan(&r.ID, &r.SourceID, &r.TargetID, &r.Kind, &r.Weight, &metaJSON); err != nil {
			continue
		}
		meta, err := unmarshalPayload(metaJSON)
		if err == nil {
			r.Metadata = meta
		}
		out = append(out, r)
	}
	return out
}
