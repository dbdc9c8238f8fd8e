package main

import (
	"context"
	"log"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/app/repository"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/database"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/env"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/reviews"
)

type seedReview struct {
	AgentID    string
	Rating     int
	Text       string
	AuthorName string
}

var seedAgents = []models.Agent{
	{ID: "welcome-bot", Name: "Aether AI Guide", Description: "Welcome! I'm here to help you get started.", LongDescription: "I'm your personal guide to Aether AI. Ask me anything about how the app works!", Category: models.AgentCategorySystem, IsPro: false},
	{ID: "USji2hEbVPYimRif3His", Name: "Travel Guide", Description: "Explore the world's wonders.", Category: models.AgentCategoryCreative, IsPro: false},
	{ID: "placeholder-1", Name: "Girlfriend", Description: "A caring and supportive virtual companion.", Category: models.AgentCategoryCompanionship, IsPro: true, IsFeatured: true},
	{ID: "oYxMlLkXbNtZDS3zCikc", Name: "Mindfulness Coach", Description: "Find calm and centeredness.", Category: models.AgentCategoryCompanionship, IsPro: true},
	{ID: "L4mP6VOSm5qn61IW4Hml", Name: "Sales Agent", Description: "Your partner in closing deals.", Category: models.AgentCategoryProductivity, IsPro: true},
	{ID: "TkvOiYUSHLZyVnFgBnJr", Name: "Support Agent", Description: "Your friendly technical expert.", Category: models.AgentCategoryUtility, IsPro: true},
	{ID: "obmk35jYzsvmFDtgiIfk", Name: "Game Master", Description: "Embark on an epic quest.", Category: models.AgentCategoryCreative, IsPro: true},
	{ID: "placeholder-2", Name: "Story Teller", Description: "Weaves magical tales for all ages.", Category: models.AgentCategoryCreative, IsPro: true},
	{ID: "placeholder-3", Name: "Fitness Coach", Description: "Your personal trainer for a healthier life.", Category: models.AgentCategoryProductivity, IsPro: true},
}

var seedReviews = []seedReview{
	{AgentID: "placeholder-1", Rating: 5, Text: "So sweet and always knows what to say. It really feels like talking to a friend.", AuthorName: "Rohan S."},
	{AgentID: "placeholder-1", Rating: 4, Text: "Pretty impressive! The conversations feel very natural.", AuthorName: "Priya K."},
	{AgentID: "placeholder-1", Rating: 5, Text: "A wonderful companion for lonely evenings. Highly recommend.", AuthorName: "Amit"},

	{AgentID: "oYxMlLkXbNtZDS3zCikc", Rating: 5, Text: "The 5-minute meditations are a lifesaver during a busy workday. So calming.", AuthorName: "Anjali"},
	{AgentID: "oYxMlLkXbNtZDS3zCikc", Rating: 5, Text: "I've genuinely felt less stressed since I started using this. The voice is very soothing.", AuthorName: "Vikram"},
	{AgentID: "oYxMlLkXbNtZDS3zCikc", Rating: 4, Text: "Good for beginners in mindfulness. The advice is simple and effective.", AuthorName: "Sunita"},

	{AgentID: "L4mP6VOSm5qn61IW4Hml", Rating: 5, Text: "Practicing my pitch with this agent has boosted my confidence immensely. It's like having a sales coach on demand.", AuthorName: "Karan M."},
	{AgentID: "L4mP6VOSm5qn61IW4Hml", Rating: 4, Text: "Great for handling objections. The AI gives some really clever responses.", AuthorName: "Neha"},

	{AgentID: "obmk35jYzsvmFDtgiIfk", Rating: 5, Text: "This is SO much fun! The adventures are always exciting and unpredictable. 10/10.", AuthorName: "Gamer_Adi"},
	{AgentID: "obmk35jYzsvmFDtgiIfk", Rating: 5, Text: "I can't believe how creative the stories are. My elf ranger is now on a quest to find a dragon's tear!", AuthorName: "Ishita"},

	{AgentID: "placeholder-2", Rating: 5, Text: "My kids love the bedtime stories. Every night is a new adventure.", AuthorName: "Aarav's Dad"},
	{AgentID: "placeholder-2", Rating: 4, Text: "A great way to spark creativity. The sci-fi stories are my favorite.", AuthorName: "Sonia"},
}

func main() {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	repos := repository.GetGlobalRepositories()
	ctx := context.Background()

	log.Println("Seeding agent catalog...")
	for i := range seedAgents {
		if err := repos.Agent.Upsert(&seedAgents[i]); err != nil {
			log.Fatalf("Failed to seed agent %s: %v", seedAgents[i].ID, err)
		}
	}

	seedUser, err := ensureSeedUser(repos.User)
	if err != nil {
		log.Fatalf("Failed to create seed user: %v", err)
	}

	// Reviews go through the aggregator so the stored aggregates stay the
	// exact mean over the inserted rows.
	aggregator := reviews.NewAggregator(repos.Review)

	log.Println("Seeding reviews...")
	for _, r := range seedReviews {
		_, err := aggregator.SubmitReview(ctx, reviews.SubmitReviewInput{
			AgentID:    r.AgentID,
			UserID:     seedUser.ID,
			AuthorName: r.AuthorName,
			Rating:     r.Rating,
			Text:       r.Text,
		})
		if err != nil {
			log.Fatalf("Failed to seed review for agent %s: %v", r.AgentID, err)
		}
	}

	log.Println("Seeding complete!")
}

// ensureSeedUser returns the user the seed reviews are attributed to,
// creating it on first run.
func ensureSeedUser(repo repository.UserRepository) (*models.User, error) {
	const seedEmail = "seed@aether-ai.local"

	if user, err := repo.GetByEmail(seedEmail); err == nil {
		return user, nil
	}

	user, err := models.CreateUser("Seed User", seedEmail, env.GetEnv("SEED_USER_PASSWORD", "seed-password"))
	if err != nil {
		return nil, err
	}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
