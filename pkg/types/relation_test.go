package types

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestParseInteractionType(t *testing.T) {
	for _, valid := range []string{
		"cooperation", "conflict", "help", "betrayal", "praise", "criticism",
		"support", "rejection", "competition", "alliance", "conversation", "ignore",
	} {
		if _, err := ParseInteractionType(valid); err != nil {
			t.Errorf("%q should parse, got error: %v", valid, err)
		}
	}

	if _, err := ParseInteractionType("gossip"); err == nil {
		t.Error("unknown type should fail")
	}
}

func TestApplyInteraction_CooperationDeltas(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}

	if err := r.ApplyInteraction(InteractionCooperation, 1.0, "joint project", now); err != nil {
		t.Fatalf("ApplyInteraction failed: %v", err)
	}

	if math.Abs(r.Trust-0.8) > 1e-9 {
		t.Errorf("trust = %f, want 0.8", r.Trust)
	}
	if math.Abs(r.Respect-0.6) > 1e-9 {
		t.Errorf("respect = %f, want 0.6", r.Respect)
	}
	wantIntimacy := 0.8*WeightTrust + 0.6*WeightRespect + 0.4*WeightAffection + 0.2*WeightDependency
	if math.Abs(r.Intimacy-wantIntimacy) > 1e-9 {
		t.Errorf("intimacy = %f, want %f", r.Intimacy, wantIntimacy)
	}
	if r.PositiveInteractions != 1 || r.NegativeInteractions != 0 || r.NeutralInteractions != 0 {
		t.Errorf("counters = %d/%d/%d, want 1/0/0",
			r.PositiveInteractions, r.NegativeInteractions, r.NeutralInteractions)
	}
	if !r.LastUpdateTime.Equal(now) {
		t.Errorf("LastUpdateTime = %v, want %v", r.LastUpdateTime, now)
	}
}

func TestApplyInteraction_ClampsComponents(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}
	now := time.Now()

	for i := 0; i < 5; i++ {
		if err := r.ApplyInteraction(InteractionBetrayal, 1.0, "", now); err != nil {
			t.Fatalf("ApplyInteraction failed: %v", err)
		}
	}
	if r.Trust != -1.0 {
		t.Errorf("trust should clamp to -1.0, got %f", r.Trust)
	}
	if r.Intimacy < -1.0 || r.Intimacy > 1.0 {
		t.Errorf("intimacy out of range: %f", r.Intimacy)
	}
	if r.NegativeInteractions != 5 {
		t.Errorf("negative counter = %d, want 5", r.NegativeInteractions)
	}
}

func TestApplyInteraction_ZeroImpactIsNeutral(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}
	if err := r.ApplyInteraction(InteractionConversation, 0.0, "", time.Now()); err != nil {
		t.Fatalf("ApplyInteraction failed: %v", err)
	}
	if r.NeutralInteractions != 1 {
		t.Errorf("neutral counter = %d, want 1", r.NeutralInteractions)
	}
	if r.Intimacy != 0 {
		t.Errorf("intimacy should stay 0, got %f", r.Intimacy)
	}
}

func TestApplyInteraction_UnknownType(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}
	err := r.ApplyInteraction(InteractionType("gossip"), 1.0, "", time.Now())
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if r.InteractionCount != 0 || len(r.InteractionHistory) != 0 {
		t.Error("failed interaction must not mutate the edge")
	}
}

func TestInteractionHistory_CapAndEvictionOrder(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxHistoryLength+30; i++ {
		ctx := fmt.Sprintf("event %d", i)
		if err := r.ApplyInteraction(InteractionConversation, 0.1, ctx, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("ApplyInteraction failed: %v", err)
		}
	}

	if len(r.InteractionHistory) != MaxHistoryLength {
		t.Fatalf("history length = %d, want %d", len(r.InteractionHistory), MaxHistoryLength)
	}
	if r.InteractionCount != MaxHistoryLength+30 {
		t.Errorf("interaction count = %d, want %d", r.InteractionCount, MaxHistoryLength+30)
	}
	// Oldest entries are evicted first: the first surviving record is event 30.
	if got := r.InteractionHistory[0].Context; got != "event 30" {
		t.Errorf("oldest surviving record = %q, want \"event 30\"", got)
	}
	if got := r.InteractionHistory[MaxHistoryLength-1].Context; got != "event 129" {
		t.Errorf("newest record = %q, want \"event 129\"", got)
	}
}

func TestDecay_MovesTowardZero(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b", Trust: 0.8, Respect: -0.4}
	r.RecomputeIntimacy()
	before := r.Intimacy

	r.Decay(0.5)
	if math.Abs(r.Trust-0.4) > 1e-9 || math.Abs(r.Respect+0.2) > 1e-9 {
		t.Errorf("components not halved: trust=%f respect=%f", r.Trust, r.Respect)
	}
	if math.Abs(r.Intimacy-before/2) > 1e-9 {
		t.Errorf("intimacy should halve with components: %f vs %f", r.Intimacy, before/2)
	}

	r.Decay(1.0)
	if math.Abs(r.Trust-0.4) > 1e-9 {
		t.Errorf("factor 1.0 should be a no-op, trust=%f", r.Trust)
	}
}

func TestClone_IsDeep(t *testing.T) {
	r := DirectedRelation{FromAgent: "a", ToAgent: "b"}
	if err := r.ApplyInteraction(InteractionPraise, 0.5, "", time.Now()); err != nil {
		t.Fatalf("ApplyInteraction failed: %v", err)
	}

	c := r.Clone()
	c.InteractionHistory[0].Context = "mutated"
	if r.InteractionHistory[0].Context == "mutated" {
		t.Error("Clone shares the history backing array")
	}
}
