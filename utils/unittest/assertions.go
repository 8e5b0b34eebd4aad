package unittest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/godwoken/gw-emulator/types"
)

// AssertStatus checks the status code err maps to.
func AssertStatus(t *testing.T, expected types.Status, err error) bool {
	t.Helper()

	actual := types.StatusOf(err)
	if !assert.Equal(t, expected, actual, "expected status %s, got %s", expected, actual) {
		if err != nil {
			t.Log(err.Error())
		}
		return false
	}

	return true
}
