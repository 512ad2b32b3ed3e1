package script

// ValidateSyntax parses source without executing it, matching spec.md §5's
// "pre-validate the script at compile time (syntax check only)". A
// successful parse says nothing about whether every call the body makes
// will succeed against a live Host at runtime.
func ValidateSyntax(source string) error {
	_, err := ParseProgram(source)
	return err
}
