package bot

import (
	"fmt"
	"strings"

	"github.com/Poco-dev/todo-bot/domain"
)

const (
	glyphDone    = "✅"
	glyphPending = "⬜"
)

const helpText = `📝 Todo List Bot

Send me any message and I will save it as a task.

Commands:
/start — open your todo list
/list — show your tasks
/stats — task counts
/help — this message`

// formatTaskList renders the owner's tasks as numbered lines with a status
// glyph, followed by a pending/total summary.
func formatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "You have no tasks yet. Send me a message to add one!"
	}

	var b strings.Builder
	b.WriteString("📋 Your tasks:\n\n")

	pending := 0
	for i, task := range tasks {
		glyph := glyphPending
		if task.Completed {
			glyph = glyphDone
		} else {
			pending++
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, glyph, task.Text)
	}

	fmt.Fprintf(&b, "\n%d of %d pending", pending, len(tasks))
	return b.String()
}

func formatStats(stats domain.Stats) string {
	return fmt.Sprintf("📊 Your tasks:\n\nTotal: %d\nCompleted: %d\nPending: %d",
		stats.Total, stats.Completed, stats.Pending)
}

func formatAdded(task *domain.Task) string {
	return fmt.Sprintf("✅ Task %q added!\n\nOpen the app to see all your tasks:", task.Text)
}
