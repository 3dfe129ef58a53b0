// Package modal implements a deterministic modal classifier: it maps a
// trinity vector to one of {Necessary, Actual, Possible, Impossible} plus
// a coherence scalar. The fractal position is not an input.
package modal

import (
	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// Classify applies the first-match-wins threshold rules. Thresholds are
// part of the public contract; callers must not adjust them per-call.
func Classify(v types.TrinityVector) types.ModalClassification {
	coherence := v.Coherence()

	var status types.ModalStatus
	switch {
	case v.T >= 0.95 && v.E >= 0.90 && coherence >= 0.90:
		status = types.Necessary
	case v.T > 0.50 && v.E > 0.50:
		status = types.Actual
	case v.T > 0.05 && v.E > 0.05:
		status = types.Possible
	default:
		status = types.Impossible
	}

	logging.ModalDebug("classified trinity=(%.4f,%.4f,%.4f) coherence=%.4f -> %s", v.E, v.G, v.T, coherence, status)
	return types.ModalClassification{Status: status, Coherence: coherence}
}
