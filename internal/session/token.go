package session

import (
	"math/rand"
	"strconv"
	"time"
)

// Generator produces opaque session tokens: the current time in
// milliseconds followed by a random component, both base-36.
type Generator struct {
	now  func() time.Time
	rand func() uint64
}

// NewGenerator returns a Generator backed by the wall clock and math/rand.
func NewGenerator() *Generator {
	return &Generator{now: time.Now, rand: rand.Uint64}
}

// Generate returns a fresh token. It never fails and performs no I/O.
func (g *Generator) Generate() string {
	ms := g.now().UnixMilli()
	return strconv.FormatInt(ms, 36) + strconv.FormatUint(g.rand(), 36)
}

var defaultGenerator = NewGenerator()

// Generate returns a fresh token from the default generator.
func Generate() string {
	return defaultGenerator.Generate()
}
