package glossary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	e, err := Lookup("PE-Ratio")
	require.NoError(t, err)
	assert.Equal(t, "pe_ratio", e.Term)
	assert.Contains(t, e.String(), "Stock price / EPS")
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("ebitda")

	var ute *UnknownTermError
	require.True(t, errors.As(err, &ute))
	assert.Contains(t, err.Error(), "  - wacc")
}

func TestTerms(t *testing.T) {
	terms := Terms()
	assert.Len(t, terms, 23)
	assert.IsIncreasing(t, terms)
	for _, term := range terms {
		_, err := Lookup(term)
		assert.NoError(t, err, term)
	}
}
