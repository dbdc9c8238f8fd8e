package conversation

import (
	"log"
	"strings"
)

// assembleContext builds the personalization string handed to the voice
// transport at session start: display name, preferences, and up to the
// most recent maxContextSummaries summaries for this agent. The bound is
// enforced by the repository query, so a hundred stored summaries cost the
// same as three. A failed summary read degrades to a context without
// history rather than blocking the session.
func (c *Controller) assembleContext() string {
	var b strings.Builder
	name := "Friend"
	if c.cfg.Profile != nil && strings.TrimSpace(c.cfg.Profile.DisplayName) != "" {
		name = strings.TrimSpace(c.cfg.Profile.DisplayName)
	}
	b.WriteString("You are speaking with " + name + ".")

	if c.cfg.Profile != nil {
		if prefs := c.cfg.Profile.PreferenceList(); len(prefs) > 0 {
			b.WriteString(" Preferences: " + strings.Join(prefs, ", ") + ".")
		}
	}

	summaries, err := c.cfg.Conversations.ListRecentSummaries(c.cfg.UserID, c.cfg.Agent.ID, maxContextSummaries)
	if err != nil {
		log.Printf("failed to load conversation summaries for agent %s: %v", c.cfg.Agent.ID, err)
		return b.String()
	}
	if len(summaries) > 0 {
		b.WriteString(" Recent conversation summaries: ")
		// The repository returns newest first; replay them oldest first.
		for i := len(summaries) - 1; i >= 0; i-- {
			b.WriteString("'" + summaries[i].SummaryText + "' ")
		}
	}
	return strings.TrimSpace(b.String())
}
