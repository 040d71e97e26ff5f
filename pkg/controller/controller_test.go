package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	f, err := Scale10itof(-28, nil)
	assert.NoError(t, err)
	assert.Equal(t, -2.8, f)

	_, err = Scale10itof(0, errors.New("timeout"))
	assert.Error(t, err)

	assert.Equal(t, uint16(223), Ftoi10(22.3))
	assert.Equal(t, uint16(0xffe4), Ftoi10(-2.8))
}
