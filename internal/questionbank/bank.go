package questionbank

import (
	"fmt"
	"math/rand"

	"github.com/nexhire/backend/internal/models"
)

// ValidationResult is returned by Validate; it never panics or errors.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var pools = map[string][]models.Question{
	models.InterviewTechnical: {
		{ID: "tech_1", Text: "Explain the difference between a process and a thread.", Category: "fundamentals"},
		{ID: "tech_2", Text: "How would you design a URL shortening service?", Category: "system_design"},
		{ID: "tech_3", Text: "What is a race condition and how do you prevent one?", Category: "concurrency"},
		{ID: "tech_4", Text: "Describe how an index speeds up a database query, and when it can hurt.", Category: "databases"},
		{ID: "tech_5", Text: "Walk through what happens when you type a URL into a browser and press enter.", Category: "networking"},
		{ID: "tech_6", Text: "How do you decide between SQL and NoSQL storage for a new feature?", Category: "databases"},
		{ID: "tech_7", Text: "Explain the trade-offs of caching and how you keep a cache consistent.", Category: "system_design"},
		{ID: "tech_8", Text: "Describe a time you debugged a production incident. What was the root cause?", Category: "debugging"},
		{ID: "tech_9", Text: "What is idempotency and why does it matter for APIs?", Category: "api_design"},
		{ID: "tech_10", Text: "How would you test a function that depends on an external HTTP service?", Category: "testing"},
	},
	models.InterviewBehavioral: {
		{ID: "behav_1", Text: "Tell me about a time you disagreed with a teammate. How did you resolve it?", Category: "teamwork"},
		{ID: "behav_2", Text: "Describe a project you are most proud of and your role in it.", Category: "ownership"},
		{ID: "behav_3", Text: "Tell me about a time you missed a deadline. What did you learn?", Category: "accountability"},
		{ID: "behav_4", Text: "How do you handle receiving critical feedback?", Category: "growth"},
		{ID: "behav_5", Text: "Describe a situation where you had to learn something new quickly.", Category: "learning"},
		{ID: "behav_6", Text: "Tell me about a time you had to make a decision with incomplete information.", Category: "judgment"},
		{ID: "behav_7", Text: "How do you prioritize when everything feels urgent?", Category: "prioritization"},
		{ID: "behav_8", Text: "Describe a time you helped a struggling teammate.", Category: "teamwork"},
	},
}

// Validate checks an (interviewType, count) pair against the available pools.
func Validate(interviewType string, count int) ValidationResult {
	var errs []string

	pool, ok := pools[interviewType]
	if !ok {
		errs = append(errs, fmt.Sprintf("unknown interview type: %q (must be technical or behavioral)", interviewType))
	}
	if count <= 0 {
		errs = append(errs, "question count must be greater than zero")
	}
	if ok && count > len(pool) {
		errs = append(errs, fmt.Sprintf("question count %d exceeds available pool of %d for type %q", count, len(pool), interviewType))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Get returns at most count questions for the requested type, shuffled per
// call. A short or empty result means the pool cannot satisfy the request.
func Get(interviewType string, count int) []models.Question {
	pool, ok := pools[interviewType]
	if !ok || count <= 0 {
		return nil
	}

	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// PoolSize reports how many questions exist for a type.
func PoolSize(interviewType string) int {
	return len(pools[interviewType])
}
