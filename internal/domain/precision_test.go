package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comedor-api/internal/domain"
)

func TestCheckScale(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"1", true},
		{"0.0001", true},
		{"12.3456", true},
		{"1.50000", true},
		{"0.00001", false},
		{"2.12345", false},
		{"-0.00005", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			err := domain.CheckScale("quantity", decimal.RequireFromString(tc.value))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), "quantity admite máximo 4 decimales")
		})
	}
}
