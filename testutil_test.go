package g7rainbow

import "testing"

// newAsserter returns a closure that fails the test with a formatted
// message when cond is false, in the style this package's tests use
// throughout.
func newAsserter(t *testing.T) func(cond bool, f string, v ...interface{}) {
	t.Helper()
	return func(cond bool, f string, v ...interface{}) {
		if !cond {
			t.Fatalf(f, v...)
		}
	}
}
