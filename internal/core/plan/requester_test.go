package plan

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type mockTextGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockTextGenerator) GenerateText(ctx context.Context, prompt string, requestID string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

const validPlanJSON = `{
  "meals": [
    {
      "day": "monday",
      "meal_type": "breakfast",
      "name": "Oatmeal",
      "description": "Warm oats with banana",
      "ingredients": ["oats", "banana"],
      "steps": ["Boil", "Serve"],
      "calories": 350,
      "protein": 12,
      "carbs": 60,
      "fats": 6,
      "benefits": "Slow-release energy"
    }
  ],
  "shopping_list": ["oats", "banana"]
}`

func TestRequest_PlainJSON(t *testing.T) {
	r := NewRequester(&mockTextGenerator{response: validPlanJSON})

	candidate, err := r.Request(context.Background(), "prompt", "req-1")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if len(candidate.Meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(candidate.Meals))
	}
	if *candidate.Meals[0].Name != "Oatmeal" {
		t.Errorf("Expected meal name 'Oatmeal', got %q", *candidate.Meals[0].Name)
	}
	if len(candidate.ShoppingList) != 2 {
		t.Errorf("Expected 2 shopping list items, got %d", len(candidate.ShoppingList))
	}
}

func TestRequest_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validPlanJSON + "\n```"
	r := NewRequester(&mockTextGenerator{response: fenced})

	candidate, err := r.Request(context.Background(), "prompt", "req-1")
	if err != nil {
		t.Fatalf("Request failed on fenced response: %v", err)
	}
	if len(candidate.Meals) != 1 {
		t.Errorf("Expected 1 meal, got %d", len(candidate.Meals))
	}
}

func TestRequest_StripsSurroundingProse(t *testing.T) {
	noisy := "Here is your plan:\n" + validPlanJSON + "\nEnjoy your week!"
	r := NewRequester(&mockTextGenerator{response: noisy})

	candidate, err := r.Request(context.Background(), "prompt", "req-1")
	if err != nil {
		t.Fatalf("Request failed on prose-wrapped response: %v", err)
	}
	if len(candidate.Meals) != 1 {
		t.Errorf("Expected 1 meal, got %d", len(candidate.Meals))
	}
}

func TestRequest_NoJSONObject(t *testing.T) {
	r := NewRequester(&mockTextGenerator{response: "Sorry, I cannot help with that."})

	if _, err := r.Request(context.Background(), "prompt", "req-1"); err == nil {
		t.Fatal("Expected an error for a response without JSON")
	}
}

func TestRequest_MalformedJSON(t *testing.T) {
	r := NewRequester(&mockTextGenerator{response: `{"meals": [`})

	if _, err := r.Request(context.Background(), "prompt", "req-1"); err == nil {
		t.Fatal("Expected an error for malformed JSON")
	}
}

func TestRequest_PropagatesAIError(t *testing.T) {
	aiErr := fmt.Errorf("mock ai outage")
	r := NewRequester(&mockTextGenerator{err: aiErr})

	_, err := r.Request(context.Background(), "prompt", "req-1")
	if err == nil {
		t.Fatal("Expected the AI error to propagate")
	}
	if !strings.Contains(err.Error(), "mock ai outage") {
		t.Errorf("Expected wrapped AI error, got %v", err)
	}
}
