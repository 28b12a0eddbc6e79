package planner

// Suggestion classifies a plan's total hours against the user's budget.
// The budget is advisory: it never changes which topics are planned.
type Suggestion string

const (
	SuggestionExact      Suggestion = "exact"
	SuggestionWithinBand Suggestion = "within_band"
	SuggestionUnder      Suggestion = "under_budget"
	SuggestionOver       Suggestion = "over_budget"
)

var suggestionMessages = map[Suggestion]string{
	SuggestionExact:      "Your available time matches the plan exactly. Keep a steady pace.",
	SuggestionWithinBand: "Your available time is close to what the plan needs. Small adjustments will get you there.",
	SuggestionUnder:      "You have more time than the plan needs. Use the extra hours for projects and review.",
	SuggestionOver:       "The plan needs more time than you have. Consider extending your schedule or trimming optional topics.",
}

// Message returns the advisory text for s.
func (s Suggestion) Message() string {
	return suggestionMessages[s]
}

// StudySuggestion compares the planned hours with the available hours. The
// tolerance band is ten percent of the plan, and at least one hour.
func StudySuggestion(totalPlanned, available int) Suggestion {
	diff := available - totalPlanned
	if diff == 0 {
		return SuggestionExact
	}
	band := totalPlanned / 10
	if band < 1 {
		band = 1
	}
	if diff <= band && diff >= -band {
		return SuggestionWithinBand
	}
	if diff > 0 {
		return SuggestionUnder
	}
	return SuggestionOver
}
