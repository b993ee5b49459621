package testutil

import "testing"

// Given, When and Then name subtests after the step they describe, so a
// failing workflow test reads as a scenario in the test output.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("Then "+desc, fn)
}
