package errno

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"nil is OK", nil, OK.Code},
		{"errno value", ErrWithdrawNotFound, ErrWithdrawNotFound.Code},
		{"errno pointer", &ErrWithdrawTerminal, ErrWithdrawTerminal.Code},
		{"plain error falls back to internal", errors.New("boom"), InternalServerError.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := Decode(tt.err)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
