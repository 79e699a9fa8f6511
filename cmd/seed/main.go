package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

type seedRecipe struct {
	title       string
	description string
	tags        []string
	ingredients []string
	prep, cook  int
}

var seedRecipes = []seedRecipe{
	{
		title:       "Classic Margherita Pizza",
		description: "Neapolitan-style pizza with fresh mozzarella and basil.",
		tags:        []string{"italian", "vegetarian"},
		ingredients: []string{"pizza dough", "tomato sauce", "fresh mozzarella", "basil", "olive oil"},
		prep:        30, cook: 12,
	},
	{
		title:       "Spicy Chickpea Curry",
		description: "A weeknight vegan curry with coconut milk and garam masala.",
		tags:        []string{"indian", "vegan"},
		ingredients: []string{"chickpeas", "coconut milk", "onion", "garlic", "garam masala", "tomatoes"},
		prep:        15, cook: 25,
	},
	{
		title:       "Lemon Herb Roast Chicken",
		description: "Whole roast chicken with lemon, garlic and thyme.",
		tags:        []string{"dinner"},
		ingredients: []string{"whole chicken", "lemon", "garlic", "thyme", "butter"},
		prep:        20, cook: 80,
	},
	{
		title:       "Miso Ramen",
		description: "Rich miso broth with fresh noodles and a soft-boiled egg.",
		tags:        []string{"japanese", "soup"},
		ingredients: []string{"ramen noodles", "miso paste", "chicken stock", "egg", "scallions", "nori"},
		prep:        25, cook: 40,
	},
	{
		title:       "Overnight Oats",
		description: "No-cook breakfast oats with yogurt and berries.",
		tags:        []string{"breakfast", "vegetarian"},
		ingredients: []string{"rolled oats", "greek yogurt", "milk", "honey", "mixed berries"},
		prep:        5, cook: 0,
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("seedpassword123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	author := models.User{
		Email:        "seed@forkful.dev",
		Username:     "seedchef",
		PasswordHash: string(hash),
		IsActive:     true,
		IsVerified:   true,
	}
	if err := db.Where("email = ?", author.Email).FirstOrCreate(&author).Error; err != nil {
		log.Fatalf("Failed to create seed user: %v", err)
	}

	recipeService := service.NewRecipeService(db)
	created := 0
	for _, seed := range seedRecipes {
		blocks := []models.JSONBMap{
			{"items": toInterfaceSlice(seed.ingredients)},
			{"prep_minutes": seed.prep, "cook_minutes": seed.cook},
		}
		in := service.CreateRecipeInput{
			Title:         seed.title,
			Description:   seed.description,
			Status:        models.StatusPublished,
			FinalImageURL: "https://placehold.co/800x600",
			Tags:          seed.tags,
			Blocks: []service.BlockInput{
				{Type: models.BlockText, Content: seed.description, Order: 0},
			},
			SpecialBlocks: []service.SpecialBlockInput{
				{Type: models.SpecialIngredients, Content: blocks[0], Order: 0},
				{Type: models.SpecialTimes, Content: blocks[1], Order: 1},
			},
		}
		if _, err := recipeService.Create(ctx, &author, in); err != nil {
			log.Printf("Skipping %q: %v", seed.title, err)
			continue
		}
		created++
	}

	fmt.Printf("Seeded %d recipe(s) for user %s\n", created, author.Email)
}

func toInterfaceSlice(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}
