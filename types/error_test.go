package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {

	t.Parallel()

	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusNotFound, StatusOf(ErrNotFound))
	assert.Equal(t, StatusInvalidAccount, StatusOf(fmt.Errorf("account 9: %w", ErrInvalidAccount)))
	assert.Equal(t, StatusInternal, StatusOf(errors.New("disk on fire")))

	assert.True(t, IsEngineFault(ErrContextClosed))
	assert.True(t, IsEngineFault(errors.New("disk on fire")))
	assert.False(t, IsEngineFault(ErrNotFound))
	assert.False(t, IsEngineFault(ErrReturnDataTooLarge))
	assert.False(t, IsEngineFault(nil))
}

func TestStatusString(t *testing.T) {

	t.Parallel()

	assert.Equal(t, "DuplicateAccount", StatusDuplicateAccount.String())
	assert.Equal(t, "Application(3)", Status(3).String())
	assert.Equal(t, "Status(-99)", Status(-99).String())
}

func TestNonceEncoding(t *testing.T) {

	t.Parallel()

	v := NonceToValue(258)
	assert.Equal(t, byte(2), v[0])
	assert.Equal(t, byte(1), v[1])
	assert.Equal(t, uint32(258), ValueToNonce(v))

	for _, b := range v[4:] {
		assert.Zero(t, b)
	}
}
