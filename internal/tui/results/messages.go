package results

// DeleteByValueMsg asks the app to open the delete form for Table with
// Condition already filled in.
type DeleteByValueMsg struct {
	Table     string
	Condition string
}
