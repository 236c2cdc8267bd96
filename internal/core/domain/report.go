package domain

// CategorySummary is one row of the per-category breakdown, recomputed on
// every calculation.
type CategorySummary struct {
	Category      string
	TeamTotal     int
	UserCompleted int
	SharePercent  float64
}

// ShareReport is the full result of one share calculation for a selected
// assignee: the primary category surfaced for the headline metric, plus one
// summary row per tracked category.
type ShareReport struct {
	Assignee    string
	Primary     CategorySummary
	GoalPercent float64
	Categories  []CategorySummary
}

// GoalMet reports whether the primary share has reached the goal threshold.
func (r ShareReport) GoalMet() bool {
	return r.Primary.SharePercent >= r.GoalPercent
}
