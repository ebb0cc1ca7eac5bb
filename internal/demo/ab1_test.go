package demo

import (
	"testing"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAB1(t *testing.T) {
	a, err := AB1()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  domain.Verdict
		final domain.StateID
	}{
		{"ab111ba", domain.Accept, 4},
		{"a", domain.Accept, 2},
		{"b1", domain.Accept, 6},
		{"1", domain.Reject, 1},
		{"", domain.Reject, 1},
		{"abc", domain.Reject, 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := a.Check(tt.input)
			assert.Equal(t, tt.want, res.Verdict)
			assert.Equal(t, tt.final, res.Final)
		})
	}
}

func TestAB1_Trace(t *testing.T) {
	a, err := AB1()
	require.NoError(t, err)

	res := a.Check("ab111ba")
	var path []domain.StateID
	for _, s := range res.Trace {
		require.Equal(t, domain.OutcomeMoved, s.Outcome)
		dst, _ := s.To.Dest()
		path = append(path, dst)
	}
	assert.Equal(t, []domain.StateID{2, 5, 6, 6, 6, 5, 4}, path)
}

func TestAB1_NamedByCatalog(t *testing.T) {
	a, err := Catalog().Build(AB1Name)
	require.NoError(t, err)
	assert.Equal(t, AB1Name, a.Name)
}
