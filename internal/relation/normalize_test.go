package relation

import (
	"errors"
	"math"
	"testing"

	"github.com/Sean220557/agentsim/pkg/types"
)

func TestParseNormalizeMethod(t *testing.T) {
	for _, s := range []string{"minmax", "zscore", "softmax"} {
		if _, err := ParseNormalizeMethod(s); err != nil {
			t.Errorf("ParseNormalizeMethod(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseNormalizeMethod("quantile"); !errors.Is(err, ErrUnknownNormalizeMethod) {
		t.Errorf("expected ErrUnknownNormalizeMethod, got %v", err)
	}
}

func TestNormalizeAgentRelations_RejectsUnknownMethod(t *testing.T) {
	g := newTestGraph("alice", "bob")
	err := g.NormalizeAgentRelations("alice", NormalizeMethod("quantile"))
	if !errors.Is(err, ErrUnknownNormalizeMethod) {
		t.Errorf("expected ErrUnknownNormalizeMethod, got %v", err)
	}
	if err := g.NormalizeAgentRelations("ghost", NormalizeMinMax); !errors.Is(err, ErrUnregisteredAgent) {
		t.Errorf("expected ErrUnregisteredAgent, got %v", err)
	}
}

func TestNormalizeAgentRelations_SingleEdgeIsNoOp(t *testing.T) {
	g := newTestGraph("alice", "bob")
	if err := g.SetRelation("alice", "bob", 0.37, ""); err != nil {
		t.Fatal(err)
	}
	if err := g.NormalizeAgentRelations("alice", NormalizeMinMax); err != nil {
		t.Fatal(err)
	}
	rel, _ := g.GetRelation("alice", "bob")
	if math.Abs(rel.Intimacy-0.37) > 1e-9 {
		t.Errorf("single-edge normalization changed intimacy to %f", rel.Intimacy)
	}
}

func TestNormalizeAgentRelations_MinMaxSpreadsToFullRange(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol", "dave")
	for to, intimacy := range map[string]float64{"bob": 0.2, "carol": 0.5, "dave": 0.8} {
		if err := g.SetRelation("alice", to, intimacy, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.NormalizeAgentRelations("alice", NormalizeMinMax); err != nil {
		t.Fatal(err)
	}

	bob, _ := g.GetRelation("alice", "bob")
	carol, _ := g.GetRelation("alice", "carol")
	dave, _ := g.GetRelation("alice", "dave")
	if math.Abs(bob.Intimacy+1) > 1e-9 || math.Abs(dave.Intimacy-1) > 1e-9 {
		t.Errorf("extremes should map to -1 and 1, got %f and %f", bob.Intimacy, dave.Intimacy)
	}
	if math.Abs(carol.Intimacy) > 1e-9 {
		t.Errorf("midpoint should map to 0, got %f", carol.Intimacy)
	}
	// Intimacy stays derived from the components after rescaling.
	want := bob.Trust*types.WeightTrust + bob.Respect*types.WeightRespect +
		bob.Affection*types.WeightAffection + bob.Dependency*types.WeightDependency
	if math.Abs(bob.Intimacy-want) > 1e-9 {
		t.Errorf("intimacy desynchronized: %f vs %f", bob.Intimacy, want)
	}
}

func TestNormalizeAgentRelations_MinMaxIdempotent(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol", "dave")
	for to, intimacy := range map[string]float64{"bob": -0.4, "carol": 0.1, "dave": 0.9} {
		if err := g.SetRelation("alice", to, intimacy, ""); err != nil {
			t.Fatal(err)
		}
	}

	if err := g.NormalizeAgentRelations("alice", NormalizeMinMax); err != nil {
		t.Fatal(err)
	}
	once := g.ExportSnapshot()
	if err := g.NormalizeAgentRelations("alice", NormalizeMinMax); err != nil {
		t.Fatal(err)
	}
	twice := g.ExportSnapshot()

	for to, after := range twice.Relations["alice"] {
		before := once.Relations["alice"][to]
		if math.Abs(after.Intimacy-before.Intimacy) > 1e-9 {
			t.Errorf("minmax not idempotent for %s: %f then %f", to, before.Intimacy, after.Intimacy)
		}
	}
}

func TestNormalizeAgentRelations_IdenticalValuesUnchanged(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol")
	for _, to := range []string{"bob", "carol"} {
		if err := g.SetRelation("alice", to, 0.6, ""); err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range []NormalizeMethod{NormalizeMinMax, NormalizeZScore} {
		if err := g.NormalizeAgentRelations("alice", m); err != nil {
			t.Fatal(err)
		}
		rel, _ := g.GetRelation("alice", "bob")
		if math.Abs(rel.Intimacy-0.6) > 1e-9 {
			t.Errorf("%s changed zero-spread values to %f", m, rel.Intimacy)
		}
	}
}

func TestNormalizeAgentRelations_ZScoreStaysInRange(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol", "dave", "erin")
	for to, intimacy := range map[string]float64{"bob": -1, "carol": -0.9, "dave": 0.95, "erin": 1} {
		if err := g.SetRelation("alice", to, intimacy, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.NormalizeAgentRelations("alice", NormalizeZScore); err != nil {
		t.Fatal(err)
	}
	for _, to := range []string{"bob", "carol", "dave", "erin"} {
		rel, _ := g.GetRelation("alice", to)
		if rel.Intimacy < -1 || rel.Intimacy > 1 {
			t.Errorf("zscore pushed %s out of range: %f", to, rel.Intimacy)
		}
	}
}

func TestNormalizeAgentRelations_SoftmaxPreservesOrdering(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol", "dave")
	for to, intimacy := range map[string]float64{"bob": -0.5, "carol": 0.0, "dave": 0.7} {
		if err := g.SetRelation("alice", to, intimacy, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.NormalizeAgentRelations("alice", NormalizeSoftmax); err != nil {
		t.Fatal(err)
	}

	bob, _ := g.GetRelation("alice", "bob")
	carol, _ := g.GetRelation("alice", "carol")
	dave, _ := g.GetRelation("alice", "dave")
	if !(bob.Intimacy < carol.Intimacy && carol.Intimacy < dave.Intimacy) {
		t.Errorf("softmax broke ordering: %f, %f, %f", bob.Intimacy, carol.Intimacy, dave.Intimacy)
	}
}

func TestNormalizeAllAgents_IndependentPerAgent(t *testing.T) {
	g := newTestGraph("alice", "bob", "carol")
	// alice has two edges with spread; bob has one edge.
	if err := g.SetRelation("alice", "bob", 0.2, ""); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRelation("alice", "carol", 0.8, ""); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRelation("bob", "carol", 0.5, ""); err != nil {
		t.Fatal(err)
	}

	if err := g.NormalizeAllAgents(NormalizeMinMax); err != nil {
		t.Fatal(err)
	}

	// bob's single edge is untouched by alice's rescaling.
	bc, _ := g.GetRelation("bob", "carol")
	if math.Abs(bc.Intimacy-0.5) > 1e-9 {
		t.Errorf("bob's edge should be untouched, got %f", bc.Intimacy)
	}
	ab, _ := g.GetRelation("alice", "bob")
	ac, _ := g.GetRelation("alice", "carol")
	if math.Abs(ab.Intimacy+1) > 1e-9 || math.Abs(ac.Intimacy-1) > 1e-9 {
		t.Errorf("alice's edges should span the range, got %f and %f", ab.Intimacy, ac.Intimacy)
	}
}
