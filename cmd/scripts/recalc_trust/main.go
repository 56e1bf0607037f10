package main

import (
	"fmt"
	"log"
	"os"

	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/models"
)

// Recomputes trust_score, total_reviews and average_rating for every user
// from the set of valid reviews targeting them. Useful after manual review
// invalidation or a botched migration.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	fmt.Println("Connected to database successfully!")
	fmt.Println("")

	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		log.Fatalf("Failed to query users: %v", err)
	}
	fmt.Printf("Total users to recalculate: %d\n\n", len(users))

	var updated int
	for _, u := range users {
		var agg struct {
			Count int64
			Avg   float64
			Sum   int64
		}
		err := db.Model(&models.Review{}).
			Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as avg, COALESCE(SUM(trust_score_impact), 0) as sum").
			Where("reviewee_id = ? AND is_valid = ?", u.ID, true).
			Scan(&agg).Error
		if err != nil {
			log.Fatalf("Failed to aggregate reviews for user %d: %v", u.ID, err)
		}

		if int(agg.Count) == u.TotalReviews && int(agg.Sum) == u.TrustScore && agg.Avg == u.AverageRating {
			continue
		}

		result := db.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
			"trust_score":    agg.Sum,
			"total_reviews":  agg.Count,
			"average_rating": agg.Avg,
		})
		if result.Error != nil {
			log.Fatalf("Failed to update user %d: %v", u.ID, result.Error)
		}

		fmt.Printf("%-5d %-30s trust %d -> %d, reviews %d -> %d\n",
			u.ID, u.FullName, u.TrustScore, agg.Sum, u.TotalReviews, agg.Count)
		updated++
	}

	fmt.Println("")
	fmt.Printf("Done. %d users updated, %d unchanged.\n", updated, len(users)-updated)
}
