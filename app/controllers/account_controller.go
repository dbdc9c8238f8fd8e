package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vibhu-thankii/aether-ai/app/repository"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/usercontext"
)

// HandleGetEntitlement returns the caller's current entitlement snapshot.
func HandleGetEntitlement(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repos := repository.GetGlobalRepositories()
	ent, err := repos.Entitlement.GetByUserID(userCtx.UserID)
	if err != nil {
		log.Printf("entitlement lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load entitlement"})
	}
	unlocked, err := repos.Entitlement.ListUnlockedAgentIDs(userCtx.UserID)
	if err != nil {
		log.Printf("agent unlock lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load entitlement"})
	}
	if unlocked == nil {
		unlocked = []string{}
	}

	return c.JSON(fiber.Map{
		"user_id":            userCtx.UserID,
		"is_pro":             ent.IsPro,
		"unlocked_agent_ids": unlocked,
	})
}

// HandleListConversations returns the caller's session history pointers,
// most recently active first.
func HandleListConversations(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	convos, err := repository.GetGlobalRepositories().Conversation.ListByUserID(userCtx.UserID)
	if err != nil {
		log.Printf("conversation listing failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load conversations"})
	}

	return c.JSON(fiber.Map{"conversations": convos})
}

// HandleGetProfile returns the caller's profile, creating defaults on first
// access.
func HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	profile, err := repository.GetGlobalRepositories().User.GetProfile(userCtx.UserID, userCtx.Username)
	if err != nil {
		log.Printf("profile load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	return c.JSON(profile)
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Preferences *string `json:"preferences"`
}

// HandleUpdateProfile updates the caller's display name and preferences.
// Absent fields keep their current value.
func HandleUpdateProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repo := repository.GetGlobalRepositories().User
	profile, err := repo.GetProfile(userCtx.UserID, userCtx.Username)
	if err != nil {
		log.Printf("profile load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Display name must not be empty"})
		}
		profile.DisplayName = name
	}
	if req.Preferences != nil {
		profile.Preferences = *req.Preferences
	}

	if err := repo.SaveProfile(profile); err != nil {
		log.Printf("profile save failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save profile"})
	}

	return c.JSON(profile)
}
