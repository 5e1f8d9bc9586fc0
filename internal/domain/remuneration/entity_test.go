package remuneration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemunerationTerminalStates(t *testing.T) {
	tests := []struct {
		status       RemunerationStatus
		canPay       bool
		canCancel    bool
	}{
		{StatusPending, true, true},
		{StatusPaid, false, false},
		{StatusCancelled, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := Remuneration{Status: tt.status}
			assert.Equal(t, tt.canPay, r.CanBePaid())
			assert.Equal(t, tt.canCancel, r.CanBeCancelled())
		})
	}
}
