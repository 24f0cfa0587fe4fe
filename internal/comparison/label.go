package comparison

// Label is a display tier for a recommendation score
type Label string

const (
	LabelExcellent  Label = "Excellent"
	LabelGood       Label = "Good"
	LabelFair       Label = "Fair"
	LabelAcceptable Label = "Acceptable"
	LabelBasic      Label = "Basic"
)

// LabelFor maps a recommendation score to its tier. Lower bounds are inclusive.
func LabelFor(score float64) Label {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelGood
	case score >= 40:
		return LabelFair
	case score >= 20:
		return LabelAcceptable
	default:
		return LabelBasic
	}
}
