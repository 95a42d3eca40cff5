package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIDWithoutOptions(t *testing.T) {
	assert.Equal(t, "p1", LineID("p1", nil))
	assert.Equal(t, "p1", LineID("p1", map[string]string{}))
}

func TestLineIDOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["Color"] = "Red"
	a["Size"] = "M"
	b := map[string]string{}
	b["Size"] = "M"
	b["Color"] = "Red"

	assert.Equal(t, "p1_Color-Red_Size-M", LineID("p1", a))
	assert.Equal(t, LineID("p1", a), LineID("p1", b))
	assert.NotEqual(t, LineID("p1", a), LineID("p1", map[string]string{"Color": "Red", "Size": "L"}))
}
