// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/service"
)

// CreatedLayout is the timestamp layout of the long format.
const CreatedLayout = "2006-01-02 15:04"

// FormatTask formats a task line.
// Format: "{ID:>4}  [x] {TITLE}\n" (4-wide right-aligned id, two spaces, checkbox, title)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.LocalID, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskLong formats a task line followed by its description and
// creation time, each indented under the title.
func FormatTaskLong(w io.Writer, task service.Task) {
	FormatTask(w, task)
	for _, line := range descriptionLines(task.Description) {
		fmt.Fprintf(w, "          %s\n", line)
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(w, "          created %s\n", task.CreatedAt.Format(CreatedLayout))
	}
}

// FormatTasks formats tasks in the given order.
func FormatTasks(w io.Writer, tasks []service.Task, long bool) {
	for _, t := range tasks {
		if long {
			FormatTaskLong(w, t)
		} else {
			FormatTask(w, t)
		}
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// descriptionLines splits a description into trimmed, non-empty lines.
func descriptionLines(desc string) []string {
	desc = strings.ReplaceAll(desc, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
