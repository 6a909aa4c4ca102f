package models

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type FoodEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MealType  MealType  `json:"meal_type"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// NutritionTotals sums the macro values of a set of entries.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (n *NutritionTotals) Add(e FoodEntry) {
	n.Calories += e.Calories
	n.Protein += e.Protein
	n.Carbs += e.Carbs
	n.Fat += e.Fat
}
