package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderIsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: StatusPending}).IsTerminal())
	assert.True(t, (&Order{Status: StatusPaid}).IsTerminal())
	assert.True(t, (&Order{Status: StatusFailed}).IsTerminal())
}
