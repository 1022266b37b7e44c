package game

import (
	"math/rand"

	"mathquest/internal/domain"
)

// DefaultStatements is the stock true/false quiz.
func DefaultStatements() []Statement {
	return []Statement{
		{Text: "3 + 4 = 4 + 3 shows the commutative property.", Answer: true, Explanation: "Swapping addends keeps the sum."},
		{Text: "(2 × 3) × 4 = 2 × (3 × 4) shows the distributive property.", Answer: false, Explanation: "Regrouping factors is the associative property."},
		{Text: "9 × 1 = 9 shows the identity property.", Answer: true, Explanation: "One is the multiplicative identity."},
		{Text: "5 + (-5) = 1 shows the inverse property.", Answer: false, Explanation: "A number plus its opposite is 0, not 1."},
		{Text: "4 × (2 + 5) = 4 × 2 + 4 × 5 shows the distributive property.", Answer: true, Explanation: "The 4 is distributed over the sum."},
	}
}

// DefaultLevels is the stock adventure.
func DefaultLevels() []Level {
	return []Level{
		{
			Title:    "The Swapping Bridge",
			Story:    "The troll lets you cross if you know why 7 + 2 equals 2 + 7.",
			Question: "Which property lets you swap the order of addends?",
			Answer:   "commutative",
			Hint:     "It comes from the word commute: to move around.",
		},
		{
			Title:    "The Grouping Grove",
			Story:    "Three trees can be grouped any way you like and still give the same total.",
			Question: "Which property lets you regroup (a + b) + c as a + (b + c)?",
			Answer:   "associative",
			Hint:     "Think about who associates with whom.",
		},
		{
			Title:    "The Distributor's Gate",
			Story:    "The gatekeeper hands 3 coins to each of (4 + 1) travellers.",
			Question: "What is 3 × (4 + 1)?",
			Answer:   "15",
			Hint:     "Compute 3 × 4 + 3 × 1.",
		},
		{
			Title:    "The Mirror Lake",
			Story:    "Whatever number you drop in the lake plus zero comes back unchanged.",
			Question: "Which property says a + 0 = a?",
			Answer:   "identity",
			Hint:     "The number keeps its identity.",
		},
	}
}

// TimedQuestionsFromProperties asks the player to name the property behind each formula.
// Every question offers all property names; rnd may be nil to keep catalog order.
func TimedQuestionsFromProperties(properties []domain.Property, rnd *rand.Rand) []TimedQuestion {
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = p.Name
	}
	questions := make([]TimedQuestion, 0, len(properties))
	for _, p := range properties {
		questions = append(questions, TimedQuestion{
			Formula: p.Formula,
			Options: append([]string(nil), names...),
			Answer:  p.Name,
		})
	}
	if rnd != nil {
		rnd.Shuffle(len(questions), func(i, j int) { questions[i], questions[j] = questions[j], questions[i] })
	}
	return questions
}
