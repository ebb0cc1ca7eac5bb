package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSymbol_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    domain.Symbol
		wantErr bool
	}{
		{name: "ascii", text: "a", want: 'a'},
		{name: "multibyte rune", text: "δ", want: 'δ'},
		{name: "empty", text: "", wantErr: true},
		{name: "two runes", text: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s domain.Symbol
			err := s.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestVerdict_UnmarshalText(t *testing.T) {
	tests := []struct {
		text    string
		want    domain.Verdict
		wantErr bool
	}{
		{text: "accept", want: domain.Accept},
		{text: "reject", want: domain.Reject},
		{text: "Accept", wantErr: true},
		{text: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v := domain.Accept
			err := v.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown verdict")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestTarget_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    domain.Target
		wantErr bool
	}{
		{name: "destination", data: `3`, want: domain.To(3)},
		{name: "zero is a destination", data: `0`, want: domain.To(0)},
		{name: "null is none", data: `null`, want: domain.None},
		{name: "string", data: `"q3"`, wantErr: true},
		{name: "fraction", data: `1.5`, wantErr: true},
		{name: "object", data: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target domain.Target
			err := json.Unmarshal([]byte(tt.data), &target)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid transition target")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, target)
		})
	}
}

func TestStep_JSON(t *testing.T) {
	steps := []domain.Step{
		{Position: 0, Symbol: 'a', From: 1, To: domain.To(2), Outcome: domain.OutcomeMoved},
		{Position: 1, Symbol: '1', From: 2, To: domain.None, Outcome: domain.OutcomeNoTransition},
	}

	data, err := json.Marshal(steps)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"position":0,"symbol":"a","from":1,"to":2,"outcome":"moved"},
		{"position":1,"symbol":"1","from":2,"to":null,"outcome":"no_transition"}
	]`, string(data))

	var decoded []domain.Step
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, steps, decoded)
}

func TestResult_JSONVerdict(t *testing.T) {
	var res domain.Result
	err := json.Unmarshal([]byte(`{"verdict":"pending"}`), &res)
	assert.ErrorContains(t, err, "unknown verdict")
}

func TestTarget_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]domain.Target{
		"none": domain.None,
		"to":   domain.To(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "none: null\nto: 2\n", string(out))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "-", domain.None.String())
	assert.Equal(t, "q7", domain.To(7).String())
	assert.Equal(t, "q?", domain.NoState.String())
}
