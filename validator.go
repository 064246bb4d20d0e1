package nodeskema

import "fmt"

// Validator is a predicate applied to a coerced value. Message is used as the
// rejection reason when set.
type Validator struct {
	Message string
	Check   func(v any) bool
}

// Check wraps fn as a Validator without a message.
func Check(fn func(any) bool) Validator { return Validator{Check: fn} }

// CheckMsg wraps fn as a Validator reporting msg on rejection.
func CheckMsg(msg string, fn func(any) bool) Validator {
	return Validator{Message: msg, Check: fn}
}

// run evaluates the predicate. A panic is reported as a rejection.
func (v Validator) run(x any) (ok bool, panicked string) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			panicked = fmt.Sprintf("validator panicked: %v", r)
		}
	}()
	return v.Check(x), ""
}
