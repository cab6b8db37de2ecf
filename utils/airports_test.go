package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAirportCode(t *testing.T) {
	cases := map[string]string{
		"KATL":  "ATL",
		" katl": "ATL",
		"atl":   "ATL",
		"ATL":   "ATL",
		"all":   "All",
		"EGLL":  "EGLL",
		"KX":    "KX",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAirportCode(in), "input %q", in)
	}
}

func TestNormalizeAirlineCode(t *testing.T) {
	assert.Equal(t, "DL", NormalizeAirlineCode(" dl "))
	assert.Equal(t, "5Y", NormalizeAirlineCode("5y"))
	assert.Equal(t, "All", NormalizeAirlineCode("ALL"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Delta Airlines", DisplayName("Delta_Airlines"))
	assert.Equal(t, "JetBlue Airways", DisplayName("JetBlue_Airways"))
	assert.Equal(t, "ExpressJet", DisplayName("ExpressJet"))
}
