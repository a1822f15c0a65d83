package testutils

import (
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/camrig/utils"
)

// ExpectContractViolation runs f and fails the test unless it panics with a contract violation whose
// message contains every one of the given substrings.
func ExpectContractViolation(t *testing.T, f func(), contains ...string) {
	t.Helper()
	defer func() {
		t.Helper()
		recovered := recover()
		test.That(t, utils.IsContractViolation(recovered), test.ShouldBeTrue)
		err, ok := recovered.(error)
		if !ok {
			return
		}
		msg := err.Error()
		for _, s := range contains {
			test.That(t, msg, test.ShouldContainSubstring, s)
		}
	}()
	f()
}
