package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Sum([]byte("abc")))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01", Short(Sum([]byte("abc"))))
	assert.Equal(t, "abc", Short("abc"))
}
