package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/app/repository"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/cache"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/usercontext"
)

const (
	catalogCacheKey = "catalog:agents"
	catalogCacheTTL = 60 * time.Second
)

// catalogEntry is one agent merged with its rating aggregate. The merged
// snapshot is tier-independent, so it can be cached once for all callers;
// the per-user access flag is layered on afterwards.
type catalogEntry struct {
	models.Agent
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type catalogResponseEntry struct {
	catalogEntry
	Accessible bool `json:"accessible"`
}

// HandleListAgents returns the catalog with rating aggregates, flagged with
// the caller's access per entry.
func HandleListAgents(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	entries, err := loadCatalogSnapshot()
	if err != nil {
		log.Printf("catalog load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load catalog"})
	}

	out := make([]catalogResponseEntry, 0, len(entries))
	for _, e := range entries {
		agent := e.Agent
		out = append(out, catalogResponseEntry{
			catalogEntry: e,
			Accessible:   userCtx.Policy.CanUseAgent(&agent),
		})
	}

	return c.JSON(fiber.Map{"agents": out})
}

// HandleGetAgent returns one catalog entry with its aggregate.
func HandleGetAgent(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	agentID := c.Params("id")
	repos := repository.GetGlobalRepositories()
	agent, err := repos.Agent.GetByID(agentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Agent not found"})
	}

	agg, err := getAggregator().GetAggregate(c.Context(), agentID)
	if err != nil {
		log.Printf("aggregate lookup failed for agent %s: %v", agentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load rating"})
	}

	return c.JSON(catalogResponseEntry{
		catalogEntry: catalogEntry{
			Agent:         *agent,
			AverageRating: agg.AverageRating,
			ReviewCount:   agg.ReviewCount,
		},
		Accessible: userCtx.Policy.CanUseAgent(agent),
	})
}

// loadCatalogSnapshot returns the merged agent+aggregate listing, serving
// from the cache when the snapshot is fresh. Cache failures fall through to
// the database; a stale or missing cache never surfaces to the client.
func loadCatalogSnapshot() ([]catalogEntry, error) {
	if raw, err := cache.Get(catalogCacheKey); err == nil && raw != "" {
		var cached []catalogEntry
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	repos := repository.GetGlobalRepositories()
	agents, err := repos.Agent.List()
	if err != nil {
		return nil, err
	}
	aggregates, err := repos.Review.ListAggregates()
	if err != nil {
		return nil, err
	}

	byAgent := make(map[string]models.AgentAggregate, len(aggregates))
	for _, agg := range aggregates {
		byAgent[agg.AgentID] = agg
	}

	entries := make([]catalogEntry, 0, len(agents))
	for _, agent := range agents {
		agg := byAgent[agent.ID]
		entries = append(entries, catalogEntry{
			Agent:         agent,
			AverageRating: agg.AverageRating,
			ReviewCount:   agg.ReviewCount,
		})
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := cache.Set(catalogCacheKey, payload, catalogCacheTTL); err != nil {
			log.Printf("catalog snapshot cache write failed: %v", err)
		}
	}

	return entries, nil
}
