package ui

import (
	"fmt"

	"github.com/nissyi-gh/habits/internal/model"
)

// HabitItem wraps model.Habit to satisfy the list.DefaultItem interface.
type HabitItem struct {
	Habit model.Habit
}

func (i HabitItem) Title() string {
	check := "[ ]"
	if i.Habit.CompletedToday {
		check = "[x]"
	}
	return fmt.Sprintf("%s %s", check, i.Habit.Name)
}

func (i HabitItem) Description() string {
	if i.Habit.CompletedToday {
		return "completed today"
	}
	return "not completed today"
}

func (i HabitItem) FilterValue() string {
	return i.Habit.Name
}
