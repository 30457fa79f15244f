package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules_Default(t *testing.T) {
	t.Parallel()

	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, mb.DefaultRules(), rules)

	rules, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, mb.DefaultRules(), rules)
}

func TestLoadRules_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `board_size: 8
fleet:
  - name: Cruiser
    length: 3
  - name: Destroyer
    length: 2
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 8, rules.BoardSize)
	assert.Equal(t, []mb.ShipSpec{{Name: "Cruiser", Length: 3}, {Name: "Destroyer", Length: 2}}, rules.Fleet)
}

func TestLoadRules_PartialFile(t *testing.T) {
	t.Parallel()

	rules, err := LoadRules(writeRules(t, "board_size: 12\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, rules.BoardSize)
	assert.Equal(t, mb.StandardFleet(), rules.Fleet)
}

func TestLoadRules_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadRules(writeRules(t, "board_size: [oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rules file")
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		rules         mb.Rules
		expectedField string
	}{
		{name: "default rules", rules: mb.DefaultRules()},
		{name: "board too small", rules: mb.Rules{BoardSize: 4, Fleet: []mb.ShipSpec{{Name: "Destroyer", Length: 2}}}, expectedField: "board_size"},
		{name: "board too large", rules: mb.Rules{BoardSize: 27, Fleet: mb.StandardFleet()}, expectedField: "board_size"},
		{name: "empty fleet", rules: mb.Rules{BoardSize: 10}, expectedField: "fleet"},
		{name: "unnamed ship", rules: mb.Rules{BoardSize: 10, Fleet: []mb.ShipSpec{{Length: 2}}}, expectedField: "fleet[0].name"},
		{name: "ship longer than board", rules: mb.Rules{BoardSize: 5, Fleet: []mb.ShipSpec{{Name: "Carrier", Length: 6}}}, expectedField: "fleet[0].length"},
		{name: "zero length ship", rules: mb.Rules{BoardSize: 5, Fleet: []mb.ShipSpec{{Name: "Ok", Length: 2}, {Name: "Ghost"}}}, expectedField: "fleet[1].length"},
		{
			name: "fleet covers the board",
			rules: mb.Rules{BoardSize: 5, Fleet: []mb.ShipSpec{
				{Name: "A", Length: 5}, {Name: "B", Length: 5}, {Name: "C", Length: 5}, {Name: "D", Length: 5}, {Name: "E", Length: 5},
			}},
			expectedField: "fleet",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateRules(test.rules)
			if test.expectedField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, test.expectedField, validationErr.Field)
		})
	}
}
