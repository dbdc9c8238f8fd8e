package controllers

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/vibhu-thankii/aether-ai/app/repository"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/reviews"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/usercontext"
)

const reviewListLimit = 50

var (
	reviewAggregator *reviews.Aggregator
	aggregatorOnce   sync.Once
)

func getAggregator() *reviews.Aggregator {
	aggregatorOnce.Do(func() {
		if reviewAggregator == nil {
			reviewAggregator = reviews.NewAggregator(repository.GetGlobalRepositories().Review)
		}
	})
	return reviewAggregator
}

// SetAggregator overrides the review aggregator, for tests.
func SetAggregator(a *reviews.Aggregator) {
	reviewAggregator = a
	aggregatorOnce = sync.Once{}
}

type submitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// HandleSubmitReview records one rating for an agent and returns the
// refreshed aggregate. A conflict after the retry budget maps to 409; the
// client may simply resubmit.
func HandleSubmitReview(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	agentID := strings.TrimSpace(c.Params("id"))
	if agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Agent id is required"})
	}
	if _, err := repository.GetGlobalRepositories().Agent.GetByID(agentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Agent not found"})
		}
		log.Printf("agent lookup failed for %s: %v", agentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load agent"})
	}

	var req submitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	agg, err := getAggregator().SubmitReview(c.Context(), reviews.SubmitReviewInput{
		AgentID:    agentID,
		UserID:     userCtx.UserID,
		AuthorName: userCtx.Username,
		Rating:     req.Rating,
		Text:       req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidRating):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
		case errors.Is(err, reviews.ErrAggregateConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
		default:
			log.Printf("review submission failed for agent %s: %v", agentID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to submit review"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"agent_id":       agg.AgentID,
		"average_rating": agg.AverageRating,
		"review_count":   agg.ReviewCount,
	})
}

// HandleListReviews returns the most recent reviews for an agent together
// with its current aggregate.
func HandleListReviews(c *fiber.Ctx) error {
	agentID := strings.TrimSpace(c.Params("id"))
	if agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Agent id is required"})
	}

	repo := repository.GetGlobalRepositories().Review
	list, err := repo.ListByAgentID(agentID, reviewListLimit)
	if err != nil {
		log.Printf("review listing failed for agent %s: %v", agentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load reviews"})
	}

	agg, err := getAggregator().GetAggregate(c.Context(), agentID)
	if err != nil {
		log.Printf("aggregate lookup failed for agent %s: %v", agentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load rating"})
	}

	return c.JSON(fiber.Map{
		"agent_id":       agentID,
		"average_rating": agg.AverageRating,
		"review_count":   agg.ReviewCount,
		"reviews":        list,
	})
}
