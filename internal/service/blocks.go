package service

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/forkful/backend/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Special-block content schemas. Pointer fields distinguish "missing" from
// zero, so a zero value still satisfies required.
type ingredientsContent struct {
	Items []string `json:"items" validate:"required,min=1,dive,required"`
}

type timesContent struct {
	PrepMinutes *int `json:"prep_minutes" validate:"required,gte=0"`
	CookMinutes *int `json:"cook_minutes" validate:"required,gte=0"`
}

type caloriesContent struct {
	Kcal *int `json:"kcal" validate:"required,gte=0"`
}

type macronutrientsContent struct {
	Calories *float64 `json:"calories" validate:"omitempty,gte=0"`
	Protein  *float64 `json:"protein" validate:"required,gte=0"`
	Fat      *float64 `json:"fat" validate:"required,gte=0"`
	Carbs    *float64 `json:"carbs" validate:"required,gte=0"`
}

// ValidateSpecialBlock checks a special block's content against its
// type-specific schema.
func ValidateSpecialBlock(blockType string, content models.JSONBMap) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return NewValidationError(blockType, "Invalid block content.")
	}

	var target interface{}
	switch blockType {
	case models.SpecialIngredients:
		target = &ingredientsContent{}
	case models.SpecialTimes:
		target = &timesContent{}
	case models.SpecialCalories:
		target = &caloriesContent{}
	case models.SpecialMacronutrients:
		target = &macronutrientsContent{}
	default:
		return NewValidationError("special_blocks", fmt.Sprintf("Unknown special block type: %s.", blockType))
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return NewValidationError(blockType, "Invalid block content.")
	}
	if err := validate.Struct(target); err != nil {
		return NewValidationError(blockType, fmt.Sprintf("Invalid %s block content.", blockType))
	}
	return nil
}

// extractMacronutrients pulls the nutrition columns out of a macronutrients
// special block, if one is supplied. Missing fields stay zero.
func extractMacronutrients(blocks []SpecialBlockInput) (calories, protein, fat, carbs float64) {
	for _, block := range blocks {
		if block.Type != models.SpecialMacronutrients {
			continue
		}
		var content macronutrientsContent
		raw, err := json.Marshal(block.Content)
		if err != nil {
			return
		}
		if err := json.Unmarshal(raw, &content); err != nil {
			return
		}
		if content.Calories != nil {
			calories = *content.Calories
		}
		if content.Protein != nil {
			protein = *content.Protein
		}
		if content.Fat != nil {
			fat = *content.Fat
		}
		if content.Carbs != nil {
			carbs = *content.Carbs
		}
		return
	}
	return
}
