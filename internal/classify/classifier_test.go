package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"praxiscli/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want domain.Category
	}{
		// "rem" excludes everything, whatever else matches.
		{"rem", domain.CategoryOther},
		{"73REM", domain.CategoryOther},
		{"REMboursement", domain.CategoryOther},
		{"1062 rem", domain.CategoryOther},

		// Physiotherapy by substring.
		{"Abo 10 séances", domain.CategoryPhysiotherapy},
		{"Séance privée", domain.CategoryPhysiotherapy},
		{"THAIS", domain.CategoryPhysiotherapy},

		// Physiotherapy by prefix.
		{"7301", domain.CategoryPhysiotherapy},
		{"2501", domain.CategoryPhysiotherapy},
		{"15.30", domain.CategoryPhysiotherapy},

		// Rule precedence: "76abo" matches the ergo prefix 76 and the
		// physio substring "abo"; physiotherapy is evaluated first.
		{"76abo", domain.CategoryPhysiotherapy},

		// Occupational therapy.
		{"7601", domain.CategoryOccupationalTherapy},
		{"3105", domain.CategoryOccupationalTherapy},
		{"3200", domain.CategoryOccupationalTherapy},
		{"Foyer de jour", domain.CategoryOccupationalTherapy},

		// Massage.
		{"1062", domain.CategoryMassage},
		{"1062.10", domain.CategoryMassage},

		// Everything else.
		{"9999", domain.CategoryOther},
		{"", domain.CategoryOther},
		{"  consultation  ", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every input must land in exactly one of the four categories.
	inputs := []string{"rem", "73", "76", "1062", "xyz", "", "15.30", "privé"}
	valid := map[domain.Category]bool{
		domain.CategoryPhysiotherapy:       true,
		domain.CategoryOccupationalTherapy: true,
		domain.CategoryMassage:             true,
		domain.CategoryOther:               true,
	}
	for _, in := range inputs {
		assert.True(t, valid[Classify(in)], "input %q", in)
	}
}

func TestResolveOverrides(t *testing.T) {
	overrides := Overrides{
		"7301": domain.CategoryMassage,
	}

	t.Run("override wins over the rule engine", func(t *testing.T) {
		assert.Equal(t, domain.CategoryMassage, Resolve("7301", overrides))
	})

	t.Run("codes without override use the rules", func(t *testing.T) {
		assert.Equal(t, domain.CategoryPhysiotherapy, Resolve("7302", overrides))
	})

	t.Run("nil overrides fall back to the rules", func(t *testing.T) {
		assert.Equal(t, domain.CategoryPhysiotherapy, Resolve("7301", nil))
	})
}
