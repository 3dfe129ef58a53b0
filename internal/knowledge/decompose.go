package knowledge

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/logos-system/ontos/internal/auth"
	"github.com/logos-system/ontos/internal/types"
)

// decompositionRNG is seeded once at process start; the decompose
// operation has no need for cryptographic randomness, only uniform
// perturbation.
var decompositionRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func perturb(value, perturbation float64) float64 {
	delta := (decompositionRNG.Float64()*2 - 1) * perturbation
	return clamp01(value + delta)
}

// Decompose splits a node into pieces perturbed copies, each linked to
// the source by a decomposition relation (weight 1/pieces) and back by a
// derived_from relation (weight 1.0). pieces = 0 creates nothing.
func (s *Service) Decompose(tok auth.Token, id string, pieces int, perturbation float64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(tok); err != nil {
		return nil, err
	}
	if pieces < 0 || perturbation < 0 {
		return nil, ErrInvalidArgument
	}

	source, ok := s.getNodeLocked(id)
	if !ok {
		return nil, ErrUnknownNode
	}
	if pieces == 0 {
		return nil, nil
	}

	ids := make([]string, 0, pieces)
	for i := 0; i < pieces; i++ {
		trinity := types.NewTrinityVector(
			perturb(source.Trinity.E, perturbation),
			perturb(source.Trinity.G, perturbation),
			perturb(source.Trinity.T, perturbation),
		)
		position := types.FractalPosition{
			CReal:        perturb(source.Position.CReal, perturbation),
			CImag:        perturb(source.Position.CImag, perturbation),
			Iterations:   source.Position.Iterations,
			InSet:        source.Position.InSet,
			EscapeRadius: source.Position.EscapeRadius,
		}

		payload := map[string]interface{}{}
		for k, v := range source.Payload {
			payload[k] = v
		}
		payload["original_node_id"] = source.ID
		payload["piece_index"] = i + 1
		payload["decomposition_perturbation"] = perturbation

		piece := types.OntologicalNode{
			ID:        newID(),
			Label:     fmt.Sprintf("Decomposition Piece %d of '%s'", i+1, source.Label),
			Trinity:   trinity,
			Position:  position,
			CreatedAt: time.Now(),
			Payload:   payload,
		}

		if err := s.st.PutNode(piece); err != nil {
			return ids, fmt.Errorf("knowledge: persist piece %d: %w", i+1, err)
		}
		s.cache.Put(piece.ID, piece)
		s.trinityIdx.Insert(piece.ID, piece.Trinity.Point3())
		s.positionIdx.Insert(piece.ID, piece.Position.Point2())

		weight := 1.0 / float64(pieces)
		toPiece := types.NewRelation(newID(), source.ID, piece.ID, "decomposition", weight, nil)
		toSource := types.NewRelation(newID(), piece.ID, source.ID, "derived_from", 1.0, nil)
		if err := s.st.PutRelation(toPiece); err != nil {
			return ids, fmt.Errorf("knowledge: link piece %d: %w", i+1, err)
		}
		if err := s.st.PutRelation(toSource); err != nil {
			return ids, fmt.Errorf("knowledge: link piece %d back to source: %w", i+1, err)
		}

		ids = append(ids, piece.ID)
	}

	s.cache.Remove(source.ID)
	return ids, nil
}
