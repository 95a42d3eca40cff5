package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator issues human-referenceable order numbers of the form
// PREFIX-<unix millis>-<batch sequence>-<8 random hex>.
type NumberGenerator struct {
	Prefix string
	Now    func() time.Time
	Random func() string
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{Prefix: prefix}
}

// Batch returns a function that numbers the orders of one checkout.
// Numbers from one batch share the timestamp and differ by sequence.
func (g *NumberGenerator) Batch() func() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	ts := now().UnixMilli()

	seq := 0
	return func() string {
		seq++
		return fmt.Sprintf("%s-%d-%d-%s", g.prefix(), ts, seq, g.random())
	}
}

func (g *NumberGenerator) prefix() string {
	if g.Prefix == "" {
		return "DRYP"
	}
	return g.Prefix
}

func (g *NumberGenerator) random() string {
	if g.Random != nil {
		return g.Random()
	}
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
