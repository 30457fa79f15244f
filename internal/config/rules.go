package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const MinBoardSize = 5

// ValidationError represents an invalid setting in the environment or
// the rules file.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadRules reads a YAML rules file. An empty path or a missing file
// yields the default rules; fields left out of the file keep their
// defaults.
//
//	board_size: 8
//	fleet:
//	  - name: Cruiser
//	    length: 3
func LoadRules(path string) (mb.Rules, error) {
	rules := mb.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rules, nil
		}
		return mb.Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return mb.Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := ValidateRules(rules); err != nil {
		return mb.Rules{}, err
	}
	return rules, nil
}

// ValidateRules checks that every ship fits the board and that the fleet
// leaves room to miss.
func ValidateRules(rules mb.Rules) error {
	if rules.BoardSize < MinBoardSize || rules.BoardSize > mb.MaxBoardSize {
		return ValidationError{
			Field:   "board_size",
			Message: fmt.Sprintf("must be between %d and %d", MinBoardSize, mb.MaxBoardSize),
		}
	}
	if len(rules.Fleet) == 0 {
		return ValidationError{Field: "fleet", Message: "at least one ship is required"}
	}

	for i, spec := range rules.Fleet {
		field := fmt.Sprintf("fleet[%d]", i)
		if spec.Name == "" {
			return ValidationError{Field: field + ".name", Message: "required field is empty"}
		}
		if spec.Length <= 0 || spec.Length > rules.BoardSize {
			return ValidationError{Field: field + ".length", Message: "must be positive and fit the board"}
		}
	}

	if mb.FleetCells(rules.Fleet) >= rules.BoardSize*rules.BoardSize {
		return ValidationError{Field: "fleet", Message: "ships cover the whole board"}
	}
	return nil
}
