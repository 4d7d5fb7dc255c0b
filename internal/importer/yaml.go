package importer

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/habits/internal/model"
	"github.com/nissyi-gh/habits/internal/store"
)

// ErrNoHabits is returned when the YAML input contains no habits.
var ErrNoHabits = errors.New("no habits found in YAML")

// YAMLHabit represents a single habit in the YAML input.
type YAMLHabit struct {
	Name string `yaml:"name"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Habits []YAMLHabit `yaml:"habits"`
}

// Import parses a YAML string and adds its habits to the store.
// Names are validated the same way as the add prompt; the first invalid
// name stops the import. Returns the number of habits added.
func Import(s *store.HabitStore, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Habits) == 0 {
		return 0, ErrNoHabits
	}

	count := 0
	for i, yh := range input.Habits {
		name, err := model.ValidateName(yh.Name)
		if err != nil {
			return count, fmt.Errorf("habit #%d: %w", i+1, err)
		}
		s.Add(name)
		count++
	}
	return count, nil
}
