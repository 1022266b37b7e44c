package app

import "mathquest/internal/domain"

// DefaultProperties is the catalog written on first run.
func DefaultProperties() []domain.Property {
	return []domain.Property{
		{
			ID:          1,
			Name:        "Commutative Property",
			Formula:     "a + b = b + a",
			Description: "Changing the order of the numbers does not change the sum or product.",
			Example:     "3 + 5 = 5 + 3",
			Icon:        "🔄",
		},
		{
			ID:          2,
			Name:        "Associative Property",
			Formula:     "(a + b) + c = a + (b + c)",
			Description: "Changing the grouping of the numbers does not change the sum or product.",
			Example:     "(2 + 3) + 4 = 2 + (3 + 4)",
			Icon:        "🔗",
		},
		{
			ID:          3,
			Name:        "Distributive Property",
			Formula:     "a × (b + c) = a × b + a × c",
			Description: "Multiplying a sum is the same as multiplying each addend and adding the products.",
			Example:     "2 × (3 + 4) = 2 × 3 + 2 × 4",
			Icon:        "📦",
		},
		{
			ID:          4,
			Name:        "Identity Property",
			Formula:     "a + 0 = a, a × 1 = a",
			Description: "Adding zero or multiplying by one leaves a number unchanged.",
			Example:     "7 + 0 = 7",
			Icon:        "🪞",
		},
		{
			ID:          5,
			Name:        "Inverse Property",
			Formula:     "a + (-a) = 0, a × (1/a) = 1",
			Description: "A number combined with its inverse gives the identity element.",
			Example:     "4 + (-4) = 0",
			Icon:        "↩️",
		},
	}
}

// DefaultPracticeProblems is the practice set written on first run.
func DefaultPracticeProblems() []domain.PracticeProblem {
	return []domain.PracticeProblem{
		{ID: 1, Problem: "If 4 + 9 = 13, what is 9 + 4?", Answer: "13", Hint: "Order does not matter when adding.", Property: "Commutative Property"},
		{ID: 2, Problem: "Solve (5 + 2) + 3 and 5 + (2 + 3).", Answer: "10", Hint: "Group the numbers differently.", Property: "Associative Property"},
		{ID: 3, Problem: "Expand 3 × (4 + 2).", Answer: "18", Hint: "Multiply 3 by each number inside the parentheses.", Property: "Distributive Property"},
		{ID: 4, Problem: "What is 15 × 1?", Answer: "15", Hint: "Multiplying by one keeps the number the same.", Property: "Identity Property"},
		{ID: 5, Problem: "What is 8 + (-8)?", Answer: "0", Hint: "A number plus its opposite.", Property: "Inverse Property"},
	}
}

// DefaultChallengeQuestions is the challenge set written on first run.
func DefaultChallengeQuestions() []domain.ChallengeQuestion {
	return []domain.ChallengeQuestion{
		{
			ID:            1,
			Question:      "Which property says 6 × 7 = 7 × 6?",
			Property:      "Commutative Property",
			Answers:       []string{"Commutative Property", "Associative Property", "Identity Property", "Inverse Property"},
			CorrectAnswer: "Commutative Property",
			Explanation:   "Swapping the factors does not change the product.",
		},
		{
			ID:            2,
			Question:      "Which property is used in 2 × (5 + 1) = 2 × 5 + 2 × 1?",
			Property:      "Distributive Property",
			Answers:       []string{"Identity Property", "Distributive Property", "Commutative Property", "Associative Property"},
			CorrectAnswer: "Distributive Property",
			Explanation:   "The factor 2 is distributed over both addends.",
		},
		{
			ID:            3,
			Question:      "What is the additive inverse of 12?",
			Property:      "Inverse Property",
			Answers:       []string{"12", "0", "-12", "1/12"},
			CorrectAnswer: "-12",
			Explanation:   "12 + (-12) = 0.",
		},
	}
}
