package entitlements

import (
	"strings"

	"github.com/vibhu-thankii/aether-ai/app/models"
)

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// NormalizeTier maps arbitrary input onto a known tier, defaulting to free.
func NormalizeTier(raw string) Tier {
	if strings.ToLower(strings.TrimSpace(raw)) == string(TierPro) {
		return TierPro
	}
	return TierFree
}

// Policy is the tier-gate consulted at each monetized decision point.
// Building it once per session keeps the free/pro branches out of the
// conversation and catalog code.
type Policy struct {
	Tier     Tier
	unlocked map[string]struct{}
}

// PolicyFor builds the policy for one entitlement snapshot.
func PolicyFor(ent *models.Entitlement, unlockedAgentIDs []string) Policy {
	tier := TierFree
	if ent != nil && ent.IsPro {
		tier = TierPro
	}
	unlocked := make(map[string]struct{}, len(unlockedAgentIDs))
	for _, id := range unlockedAgentIDs {
		unlocked[id] = struct{}{}
	}
	return Policy{Tier: tier, unlocked: unlocked}
}

// CanViewTranscripts reports whether session transcripts may accumulate.
// Free sessions are voice-only; this is a policy gate, not a UI toggle.
func (p Policy) CanViewTranscripts() bool {
	return p.Tier == TierPro
}

// ShouldSummarize reports whether end-of-session summarization runs at all.
func (p Policy) ShouldSummarize() bool {
	return p.Tier == TierPro
}

// CanUseAgent reports whether the catalog entry is accessible: free agents
// always, pro agents for subscribers or after a single-agent purchase.
func (p Policy) CanUseAgent(agent *models.Agent) bool {
	if agent == nil {
		return false
	}
	if !agent.IsPro || p.Tier == TierPro {
		return true
	}
	_, ok := p.unlocked[agent.ID]
	return ok
}
