package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

func titles(views []models.TaskView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Title
	}
	return out
}

func withPriority(title string, p models.Priority) models.TaskView {
	return models.TaskView{Title: title, Priority: priorityPtr(p)}
}

func TestSort_PriorityIsLexicographic(t *testing.T) {
	views := []models.TaskView{
		withPriority("c", models.PriorityCritical),
		withPriority("h", models.PriorityHigh),
		withPriority("l", models.PriorityLow),
		withPriority("m", models.PriorityMedium),
	}

	Sort(views, SortPriority, Descending)
	assert.Equal(t, []string{"m", "l", "h", "c"}, titles(views))

	Sort(views, SortPriority, Ascending)
	assert.Equal(t, []string{"c", "h", "l", "m"}, titles(views))
}

func TestSort_TitleAscendingDescending(t *testing.T) {
	views := []models.TaskView{{Title: "Sooner Task"}, {Title: "Later Task"}, {Title: "abcd"}}

	Sort(views, SortTitle, Ascending)
	assert.Equal(t, []string{"Later Task", "Sooner Task", "abcd"}, titles(views))

	Sort(views, SortTitle, Descending)
	assert.Equal(t, []string{"abcd", "Sooner Task", "Later Task"}, titles(views))
}

func TestSort_DeadlineNullsLastBothDirections(t *testing.T) {
	views := []models.TaskView{
		{Title: "none-1"},
		{Title: "later", Deadline: datePtr(2025, 12, 31)},
		{Title: "none-2"},
		{Title: "sooner", Deadline: datePtr(2025, 12, 7)},
	}

	Sort(views, SortDeadline, Ascending)
	assert.Equal(t, []string{"sooner", "later", "none-1", "none-2"}, titles(views))

	Sort(views, SortDeadline, Descending)
	assert.Equal(t, []string{"later", "sooner", "none-1", "none-2"}, titles(views))
}

func TestSort_TiesKeepCreationOrder(t *testing.T) {
	views := []models.TaskView{
		withPriority("first", models.PriorityHigh),
		withPriority("second", models.PriorityHigh),
		withPriority("third", models.PriorityHigh),
		{Title: "unset-a"},
		{Title: "unset-b"},
	}

	Sort(views, SortPriority, Descending)
	assert.Equal(t, []string{"first", "second", "third", "unset-a", "unset-b"}, titles(views))

	Sort(views, SortPriority, Ascending)
	assert.Equal(t, []string{"first", "second", "third", "unset-a", "unset-b"}, titles(views))
}

func TestSort_NoneKeepsOrder(t *testing.T) {
	views := []models.TaskView{{Title: "b"}, {Title: "a"}}
	Sort(views, SortNone, Descending)
	assert.Equal(t, []string{"b", "a"}, titles(views))
}

func TestParseSortKeyAndDirection(t *testing.T) {
	for _, s := range []string{"", "title", "deadline", "priority"} {
		k, err := ParseSortKey(s)
		require.NoError(t, err)
		assert.Equal(t, SortKey(s), k)
	}
	k, err := ParseSortKey("Title")
	require.NoError(t, err)
	assert.Equal(t, SortTitle, k)

	_, err = ParseSortKey("createdAt")
	assert.Error(t, err)

	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	d, err = ParseDirection("descending")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	d, err = ParseDirection("Ascending")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	_, err = ParseDirection("desc")
	assert.Error(t, err)
}
