package analysis

import (
	"testing"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestSuggestRooms(t *testing.T) {
	problem := fixtureProblem(t)

	t.Run("Resolves a room clash", func(t *testing.T) {
		// Arrange: E1 and E2 share R2, but E2 fits nowhere else
		schedule := model.NewSchedule([]model.Assignment{
			{EventID: "E1", SlotID: "Mon_08", RoomID: "R2"},
			{EventID: "E2", SlotID: "Mon_08", RoomID: "R2"},
		})

		// Act
		suggestions, err := SuggestRooms(problem, schedule, "Mon_08")

		// Assert
		assert.Nil(t, err)
		assert.Equal(t, []model.Assignment{
			{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
			{EventID: "E2", SlotID: "Mon_08", RoomID: "R2"},
		}, suggestions)
	})

	t.Run("More events than rooms", func(t *testing.T) {
		schedule := model.NewSchedule([]model.Assignment{
			{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
			{EventID: "E3", SlotID: "Mon_08", RoomID: "R1"},
			{EventID: "E4", SlotID: "Mon_08", RoomID: "R2"},
		})

		suggestions, err := SuggestRooms(problem, schedule, "Mon_08")

		assert.Nil(t, suggestions)
		assert.Equal(t, UnassignableError{}, err)
	})

	t.Run("No events at the slot", func(t *testing.T) {
		schedule := model.NewSchedule([]model.Assignment{
			{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
		})

		suggestions, err := SuggestRooms(problem, schedule, "Tue_08")

		assert.Nil(t, err)
		assert.Empty(t, suggestions)
	})
}
