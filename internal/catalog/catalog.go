// Package catalog holds the built-in question sets served when no database is configured.
package catalog

import "training-assessment-service/internal/domain"

// MicrointeractionsID identifies the default microinteraction assessment.
const MicrointeractionsID = "microinteractions"

// Sets returns every built-in question set keyed by id.
func Sets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		MicrointeractionsID: Microinteractions(),
	}
}

// Microinteractions is the five-scenario assessment on microinteraction and automation practice.
func Microinteractions() domain.QuestionSet {
	return domain.QuestionSet{
		ID:    MicrointeractionsID,
		Title: "Microinteraction assessment",
		Questions: []domain.Question{
			{
				ID:     1,
				Prompt: `A "Save" button gives no visual feedback when clicked. The user cannot tell whether the action succeeded. What is the problem?`,
				Options: []domain.Option{
					{ID: "a", Text: "Missing trigger"},
					{ID: "b", Text: "Missing feedback"},
					{ID: "c", Text: "Poorly defined rules"},
					{ID: "d", Text: "Loops and modes issue"},
				},
				CorrectOptionID: "b",
				Explanation:     "Feedback tells the user their action was recognised and processed. Without it the user is left guessing.",
			},
			{
				ID:     2,
				Prompt: "A form can be submitted with required fields empty and only shows an error after the page reloads. What is wrong?",
				Options: []domain.Option{
					{ID: "a", Text: "Missing inline validation"},
					{ID: "b", Text: "Colours too dark"},
					{ID: "c", Text: "Button too small"},
					{ID: "d", Text: "Unreadable font"},
				},
				CorrectOptionID: "a",
				Explanation:     "Inline validation prevents errors before submission and is one of the most valuable microinteractions in a form.",
			},
			{
				ID:     3,
				Prompt: "A toggle switch flips state instantly with no animation or transition. Which microinteraction principle is violated?",
				Options: []domain.Option{
					{ID: "a", Text: "The trigger is wrong"},
					{ID: "b", Text: "The rules are confusing"},
					{ID: "c", Text: "Insufficient visual feedback"},
					{ID: "d", Text: "Wrong mode enabled"},
				},
				CorrectOptionID: "c",
				Explanation:     "A short transition helps the user see that the state changed as a result of their action.",
			},
			{
				ID:     4,
				Prompt: "An RPA automation runs 24/7 but produces no logs or error notifications. Which practice is missing?",
				Options: []domain.Option{
					{ID: "a", Text: "Execution speed"},
					{ID: "b", Text: "Monitoring and logging"},
					{ID: "c", Text: "A nicer interface"},
					{ID: "d", Text: "More robots"},
				},
				CorrectOptionID: "b",
				Explanation:     "Monitoring and logging are how failures get noticed; without them an automation cannot be trusted.",
			},
			{
				ID:     5,
				Prompt: "A loading page shows no progress at all, only a blank screen. What would improve the experience?",
				Options: []domain.Option{
					{ID: "a", Text: "Remove the loading step"},
					{ID: "b", Text: "Skeleton loading or a spinner"},
					{ID: "c", Text: "An alert pop-up"},
					{ID: "d", Text: "A waiting sound"},
				},
				CorrectOptionID: "b",
				Explanation:     "Skeleton screens and spinners show that work is happening and shorten the perceived wait.",
			},
		},
	}
}
