package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comedor-api/internal/application/dto"
	"github.com/jhoicas/Comedor-api/pkg/validator"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	var p dto.PageRequest
	p.DefaultPage()
	assert.Equal(t, dto.DefaultPageLimit, p.Limit)
	assert.Zero(t, p.Offset)
	assert.Empty(t, validator.ValidateStruct(p))

	p = dto.PageRequest{Limit: 10, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 10, p.Limit, "un limit explícito se respeta")
	assert.Zero(t, p.Offset)

	p = dto.PageRequest{Limit: dto.MaxPageLimit + 1}
	p.DefaultPage()
	assert.NotEmpty(t, validator.ValidateStruct(p))
}
