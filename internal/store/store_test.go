package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logos-system/ontos/internal/types"
)

func sampleNode(id, label string) types.OntologicalNode {
	return types.OntologicalNode{
		ID:        id,
		Label:     label,
		Trinity:   types.NewTrinityVector(0.8, 0.7, 0.9),
		Position:  types.FractalPosition{CReal: 0.72, CImag: 0.7, Iterations: 100, InSet: true, EscapeRadius: 2.0},
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		Payload:   map[string]interface{}{"note": "seed"},
	}
}

func TestPutGetNode_RoundTrip_Persistent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "knowledge.db"), true)
	require.NoError(t, err)
	defer s.Close()
	require.False(t, s.Ephemeral())

	n := sampleNode("node-1", "Axiom of Choice")
	require.NoError(t, s.PutNode(n))

	got, ok := s.GetNode("node-1")
	require.True(t, ok)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.Label, got.Label)
	assert.Equal(t, n.Trinity, got.Trinity)
	assert.Equal(t, n.Position.CReal, got.Position.CReal)
	assert.Empty(t, got.Relations)
}

func TestPutNode_UpsertReplacesByID(t *testing.T) {
	s := newEphemeral()
	n := sampleNode("node-1", "First Label")
	require.NoError(t, s.PutNode(n))

	n2 := n
	n2.Label = "Second Label"
	require.NoError(t, s.PutNode(n2))

	got, ok := s.GetNode("node-1")
	require.True(t, ok)
	assert.Equal(t, "Second Label", got.Label)
}

func TestGetNode_Absent(t *testing.T) {
	s := newEphemeral()
	_, ok := s.GetNode("missing")
	assert.False(t, ok)
}

func TestPutRelation_MissingEndpointFails(t *testing.T) {
	s := newEphemeral()
	require.NoError(t, s.PutNode(sampleNode("a", "A")))

	rel := types.NewRelation("rel-1", "a", "does-not-exist", "supports", 1.0, nil)
	err := s.PutRelation(rel)
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestPutRelation_AndListDirections(t *testing.T) {
	s := newEphemeral()
	require.NoError(t, s.PutNode(sampleNode("a", "A")))
	require.NoError(t, s.PutNode(sampleNode("b", "B")))

	rel := types.NewRelation("rel-1", "a", "b", "supports", 0.5, map[string]interface{}{"note": "x"})
	require.NoError(t, s.PutRelation(rel))

	out := s.ListRelations("a", "", DirectionOutgoing)
	require.Len(t, out, 1)
	assert.Equal(t, "rel-1", out[0].ID)

	in := s.ListRelations("b", "", DirectionIncoming)
	require.Len(t, in, 1)
	assert.Equal(t, "rel-1", in[0].ID)

	none := s.ListRelations("b", "", DirectionOutgoing)
	assert.Empty(t, none)

	both := s.ListRelations("a", "", DirectionBoth)
	require.Len(t, both, 1)

	byKind := s.ListRelations("a", "supports", DirectionOutgoing)
	require.Len(t, byKind, 1)
	byWrongKind := s.ListRelations("a", "derived_from", DirectionOutgoing)
	assert.Empty(t, byWrongKind)
}

func TestGetNode_PopulatesOutgoingRelationsOnly(t *testing.T) {
	s := newEphemeral()
	require.NoError(t, s.PutNode(sampleNode("a", "A")))
	require.NoError(t, s.PutNode(sampleNode("b", "B")))
	require.NoError(t, s.PutRelation(types.NewRelation("rel-1", "a", "b", "supports", 1.0, nil)))

	got, ok := s.GetNode("a")
	require.True(t, ok)
	require.Len(t, got.Relations, 1)
	assert.Equal(t, "b", got.Relations[0].TargetID)

	gotB, ok := s.GetNode("b")
	require.True(t, ok)
	assert.Empty(t, gotB.Relations)
}

func TestDeleteNode_CascadesRelations(t *testing.T) {
	s := newEphemeral()
	require.NoError(t, s.PutNode(sampleNode("a", "A")))
	require.NoError(t, s.PutNode(sampleNode("b", "B")))
	require.NoError(t, s.PutRelation(types.NewRelation("rel-1", "a", "b", "supports", 1.0, nil)))

	require.NoError(t, s.DeleteNode("a"))

	_, ok := s.GetNode("a")
	assert.False(t, ok)
	assert.Empty(t, s.ListRelations("b", "", DirectionIncoming))
}

func TestFindByLabel_SubstringCaseInsensitive(t *testing.T) {
	s := newEphemeral()
	require.NoError(t, s.PutNode(sampleNode("a", "Axiom of Choice")))
	require.NoError(t, s.PutNode(sampleNode("b", "Banach-Tarski Paradox")))

	ids := s.FindByLabel("axiom", 0)
	require.Len(t, ids, 1)
	assert.Equal(t, "a", ids[0])

	none := s.FindByLabel("nonexistent", 0)
	assert.Empty(t, none)
}

func TestOpen_PersistenceDisabled_IsEphemeral(t *testing.T) {
	s, err := Open("unused.db", false)
	require.NoError(t, err)
	assert.True(t, s.Ephemeral())
}

func TestOpen_UnwritableDirectory_FallsBackToEphemeral(t *testing.T) {
	s, err := Open("/proc/nonexistent-dir-for-ontos/knowledge.db", true)
	require.NoError(t, err)
	assert.True(t, s.Ephemeral())
}

func TestPutNode_CorruptedBlobTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "knowledge.db"), true)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutNode(sampleNode("a", "A")))
	_, err = s.db.Exec(`UPDATE nodes SET blob = 'not json' WHERE id = ?`, "a")
	require.NoError(t, err)

	_, ok := s.GetNode("a")
	assert.False(t, ok)
}
