package storage

import (
	"sort"

	"github.com/julianstephens/habitkit/internal/models"
)

func sortHabitsByCreation(habits []models.Habit) {
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
}

func sortCompletionsByDay(records []models.CompletionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].LoggedAt.Before(records[j].LoggedAt)
	})
}
