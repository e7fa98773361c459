package selection

// Confirmer asks the user before a destructive bulk action.
// Returning false cancels the action without error.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Always confirms every prompt. Used for --yes style flags.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Never declines every prompt.
var Never Confirmer = ConfirmFunc(func(string) bool { return false })
