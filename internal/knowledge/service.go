// Package knowledge implements the public façade of the ontology engine:
// the single entry point that wires the expression kernel, escape-time
// positioner, modal classifier, dual k-d tree index, node cache, and
// persistent store into create/get/relate/nearest/decompose operations.
package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/logos-system/ontos/internal/auth"
	"github.com/logos-system/ontos/internal/cache"
	"github.com/logos-system/ontos/internal/config"
	"github.com/logos-system/ontos/internal/fractal"
	"github.com/logos-system/ontos/internal/kdtree"
	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/modal"
	"github.com/logos-system/ontos/internal/store"
	"github.com/logos-system/ontos/internal/types"
)

// Service is the knowledge-service façade. It owns the cache, the
// persistent store, and the two k-d tree indices (3D trinity, 2D complex
// position); all other components are called as pure functions.
type Service struct {
	mu sync.Mutex

	cfg *config.Config

	st    *store.Store
	cache *cache.Cache

	trinityIdx  *kdtree.Tree
	positionIdx *kdtree.Tree

	fractalParams types.FractalParams
	closed        bool
}

// Open opens a knowledge service over cfg: it opens the persistent store
// (which may itself fall back to ephemeral mode), builds the node cache,
// and rebuilds both spatial indices by scanning the store.
func Open(ctx context.Context, cfg *config.Config) (*Service, error) {
	st, err := store.Open(cfg.Store.Path, cfg.Store.PersistenceEnabled)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open store: %w", err)
	}

	s := &Service{
		cfg:         cfg,
		st:          st,
		cache:       cache.New(cfg.Cache.Size),
		trinityIdx:  kdtree.New(3),
		positionIdx: kdtree.New(2),
		fractalParams: types.FractalParams{
			MaxIter:      cfg.Fractal.MaxIter,
			EscapeRadius: cfg.Fractal.EscapeRadius,
		},
	}

	if err := s.rebuildIndices(ctx); err != nil {
		return nil, fmt.Errorf("knowledge: rebuild indices: %w", err)
	}

	logging.Knowledge("opened knowledge service (ephemeral=%v)", st.Ephemeral())
	return s, nil
}

// rebuildIndices scans the store's label index for every known id and
// re-inserts its coordinates into both trees concurrently, one errgroup
// goroutine per id, waiting for all of them before returning.
func (s *Service) rebuildIndices(ctx context.Context) error {
	ids := s.st.FindByLabel("", 0)
	if len(ids) == 0 {
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for _, id := range ids {
		id := id
		g.Go(func() error {
			n, ok := s.st.GetNode(id)
			if !ok {
				return nil
			}
			mu.Lock()
			s.trinityIdx.Insert(n.ID, n.Trinity.Point3())
			s.positionIdx.Insert(n.ID, n.Position.Point2())
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (s *Service) checkOpen(tok auth.Token) error {
	if err := auth.Validate(tok); err != nil {
		return err
	}
	if s.closed {
		return ErrServiceClosed
	}
	return nil
}

// CreateNode creates and persists a new node. Exactly one of position or
// useComplex should be supplied by the caller's intent: if useComplex is
// true, a fresh position is computed from trinity via the escape-time
// positioner; otherwise position is taken as given.
func (s *Service) CreateNode(tok auth.Token, label string, trinity types.TrinityVector, position types.FractalPosition, useComplex bool, parentID string, payload map[string]interface{}) (types.OntologicalNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return types.OntologicalNode{}, err
	}

	if useComplex {
		position = fractal.Compute(trinity, s.fractalParams)
	}

	classification := modal.Classify(trinity)

	mergedPayload := map[string]interface{}{}
	for k, v := range payload {
		mergedPayload[k] = v
	}
	mergedPayload["modal_status"] = string(classification.Status)
	mergedPayload["coherence"] = classification.Coherence

	n := types.OntologicalNode{
		ID:       newID(),
		Label:    label,
		Trinity:  trinity,
		Position: position,
		Payload:  mergedPayload,
	}
	n.CreatedAt = time.Now()

	if err := s.st.PutNode(n); err != nil {
		return types.OntologicalNode{}, fmt.Errorf("knowledge: persist node: %w", err)
	}
	s.cache.Put(n.ID, n)
	s.trinityIdx.Insert(n.ID, n.Trinity.Point3())
	s.positionIdx.Insert(n.ID, n.Position.Point2())

	if parentID != "" {
		if _, ok := s.getNodeLocked(parentID); ok {
			rel := types.NewRelation(newID(), n.ID, parentID, "derived_from", 1.0, nil)
			if err := s.st.PutRelation(rel); err != nil {
				logging.KnowledgeWarn("create_node: failed to link parent %s: %v", parentID, err)
			}
		} else {
			logging.KnowledgeWarn("create_node: parent_id %s not found, creating node anyway", parentID)
		}
	}

	logging.Knowledge("created node id=%s label=%q status=%s", n.ID, n.Label, classification.Status)
	return n, nil
}

// GetNode looks up a node, checking the cache before the store.
func (s *Service) GetNode(tok auth.Token, id string) (types.OntologicalNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return types.OntologicalNode{}, err
	}
	n, ok := s.getNodeLocked(id)
	if !ok {
		return types.OntologicalNode{}, ErrUnknownNode
	}
	return n, nil
}

func (s *Service) getNodeLocked(id string) (types.OntologicalNode, bool) {
	if n, ok := s.cache.Get(id); ok {
		return n, true
	}
	n, ok := s.st.GetNode(id)
	if !ok {
		return types.OntologicalNode{}, false
	}
	s.cache.Put(id, n)
	return n, true
}

// AddRelation adds a typed, weighted relation from sourceID to targetID,
// merging metadata into any existing relation of the same kind between
// the same two nodes rather than creating a duplicate.
func (s *Service) AddRelation(tok auth.Token, sourceID, targetID, kind string, weight float64, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return err
	}

	existing := s.st.ListRelations(sourceID, kind, store.DirectionOutgoing)
	for _, r := range existing {
		if r.TargetID != targetID {
			continue
		}
		merged := map[string]interface{}{}
		for k, v := range r.Metadata {
			merged[k] = v
		}
		for k, v := range metadata {
			merged[k] = v
		}
		rel := types.NewRelation(r.ID, sourceID, targetID, kind, weight, merged)
		if err := s.st.PutRelation(rel); err != nil {
			return err
		}
		s.cache.Remove(sourceID)
		return nil
	}

	rel := types.NewRelation(newID(), sourceID, targetID, kind, weight, metadata)
	if err := s.st.PutRelation(rel); err != nil {
		return err
	}
	s.cache.Remove(sourceID)
	return nil
}

// RelationsOf returns id's relations matching an optional kind filter
// and direction, deduplicated.
func (s *Service) RelationsOf(tok auth.Token, id string, kind string, direction store.Direction) ([]types.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return nil, err
	}
	return dedupeRelations(s.st.ListRelations(id, kind, direction)), nil
}

func dedupeRelations(rels []types.Relation) []types.Relation {
	seen := map[[3]string]bool{}
	var out []types.Relation
	for _, r := range rels {
		key := [3]string{r.SourceID, r.TargetID, r.Kind}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// NearestByTrinity returns the k nodes nearest to trinity in the 3D
// trinity index.
func (s *Service) NearestByTrinity(tok auth.Token, trinity types.TrinityVector, k int) ([]kdtree.Neighbor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, ErrInvalidArgument
	}
	return dedupeNeighbors(s.trinityIdx.KNearest(trinity.Point3(), k)), nil
}

// NearestByPosition returns the k nodes nearest to position in the 2D
// complex-plane index.
func (s *Service) NearestByPosition(tok auth.Token, position types.FractalPosition, k int) ([]kdtree.Neighbor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, ErrInvalidArgument
	}
	return dedupeNeighbors(s.positionIdx.KNearest(position.Point2(), k)), nil
}

// dedupeNeighbors collapses duplicate-id entries arising from the k-d
// tree's insertion-only coordinate-update policy, keeping the smallest
// distance per id, then re-sorts ascending.
func dedupeNeighbors(neighbors []kdtree.Neighbor) []kdtree.Neighbor {
	best := map[string]kdtree.Neighbor{}
	for _, n := range neighbors {
		cur, ok := best[n.ID]
		if !ok || n.Distance < cur.Distance {
			best[n.ID] = n
		}
	}
	out := make([]kdtree.Neighbor, 0, len(best))
	for _, n := range best {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByLabel returns up to limit nodes whose label contains substring.
// The store is the authoritative label index and is always queried
// first; getNodeLocked then serves each matched id from cache when
// present.
func (s *Service) FindByLabel(tok auth.Token, substring string, limit int) ([]types.OntologicalNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return nil, err
	}

	ids := s.st.FindByLabel(substring, limit)
	out := make([]types.OntologicalNode, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.getNodeLocked(id); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// RemoveNode deletes a node and cascades its relations.
func (s *Service) RemoveNode(tok auth.Token, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return err
	}
	if _, ok := s.getNodeLocked(id); !ok {
		return ErrUnknownNode
	}
	if err := s.st.DeleteNode(id); err != nil {
		return err
	}
	s.cache.Remove(id)
	return nil
}

// Close transitions the service from open to closed. The transition is
// idempotent.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	logging.Knowledge("closed knowledge service")
	return s.st.Close()
}
