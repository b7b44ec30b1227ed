package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{ExitOnError: true}, got)
}

func TestBinaryName(t *testing.T) {
	assert.Equal(t, "nvset", CliBinaryName)
}
