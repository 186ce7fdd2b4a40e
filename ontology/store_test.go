package ontology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeadmin/dlreasoner/ontology"
)

// TestNextAnonIDUnique checks that repeated calls mint distinct,
// non-empty local ids for anonymous (blank-node) individuals.
func TestNextAnonIDUnique(t *testing.T) {
	o := ontology.New()
	a := o.NextAnonID()
	b := o.NextAnonID()

	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)

	ind := ontology.AnonymousIndividual(a)
	assert.True(t, ind.IsAnon)
	assert.Equal(t, a, ind.Anon)
}
