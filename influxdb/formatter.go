package influxdb

import (
	"fmt"
	"sort"
	"strings"
)

// ConsoleFormatter provides console output formatting for tasks and
// labels
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatTaskList formats a list of tasks for console display
func (f *ConsoleFormatter) FormatTaskList(tasks []TaskInfo, options FormatOptions) string {
	if len(tasks) == 0 {
		return "No tasks found"
	}

	var sb strings.Builder

	sb.WriteString("\nTask")
	if len(tasks) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(tasks))

	for i, task := range tasks {
		isLast := i == len(tasks)-1
		f.formatTask(&sb, task, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatTasksToDelete formats tasks for deletion confirmation
func (f *ConsoleFormatter) FormatTasksToDelete(tasks []TaskInfo) string {
	if len(tasks) == 0 {
		return ""
	}

	var sb strings.Builder
	var activeCount int

	sb.WriteString("\nTask")
	if len(tasks) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " to be deleted (%d):\n\n", len(tasks))

	for i, task := range tasks {
		isLast := i == len(tasks)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s", prefix, task.Name)
		if task.Active() {
			sb.WriteString(" [ACTIVE]")
			activeCount++
		}
		sb.WriteString("\n")

		indent := "│   "
		if isLast {
			indent = "    "
		}

		fmt.Fprintf(&sb, "%sID: %s\n", indent, task.ID)

		if task.Org != "" {
			fmt.Fprintf(&sb, "%sOrg: %s\n", indent, task.Org)
		}

		if schedule := formatSchedule(task); schedule != "" {
			fmt.Fprintf(&sb, "%sSchedule: %s\n", indent, schedule)
		}

		var dateParts []string
		if !task.CreatedAt.IsZero() {
			dateParts = append(dateParts, fmt.Sprintf("Created: %s", task.CreatedAt.Format("2006-01-02")))
		}
		if !task.LatestCompleted.IsZero() {
			dateParts = append(dateParts, fmt.Sprintf("Last run: %s", task.LatestCompleted.Format("2006-01-02")))
		}
		if len(dateParts) > 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")

	if activeCount > 0 {
		fmt.Fprintf(&sb, "Warning: %d of these tasks are active.\n\n", activeCount)
	}

	return sb.String()
}

// FormatLabelList formats a list of labels for console display
func (f *ConsoleFormatter) FormatLabelList(labels []Label, options FormatOptions) string {
	if len(labels) == 0 {
		return "No labels found"
	}

	var sb strings.Builder

	sb.WriteString("\nLabel")
	if len(labels) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(labels))

	for _, label := range labels {
		fmt.Fprintf(&sb, "  • %s (ID: %s)\n", label.Name, label.ID)

		if options.ShowDetails && len(label.Properties) > 0 {
			keys := make([]string, 0, len(label.Properties))
			for key := range label.Properties {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			var props []string
			for _, key := range keys {
				props = append(props, fmt.Sprintf("%s=%s", key, label.Properties[key]))
			}
			fmt.Fprintf(&sb, "    %s\n", strings.Join(props, ", "))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatTask formats a single task entry
func (f *ConsoleFormatter) formatTask(sb *strings.Builder, task TaskInfo, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s", prefix, task.Name)
	if !task.Active() {
		sb.WriteString(" [INACTIVE]")
	}
	sb.WriteString("\n")

	if !options.ShowDetails && !options.ShowFlux {
		return
	}

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		fmt.Fprintf(sb, "%sID: %s\n", indent, task.ID)

		if task.Org != "" {
			fmt.Fprintf(sb, "%sOrg: %s\n", indent, task.Org)
		}

		if task.Description != "" {
			fmt.Fprintf(sb, "%sDescription: %s\n", indent, task.Description)
		}

		if schedule := formatSchedule(task); schedule != "" {
			fmt.Fprintf(sb, "%sSchedule: %s\n", indent, schedule)
		}

		var dateParts []string
		if !task.CreatedAt.IsZero() {
			dateParts = append(dateParts, fmt.Sprintf("Created: %s", task.CreatedAt.Format("2006-01-02")))
		}
		if !task.LatestCompleted.IsZero() {
			dateParts = append(dateParts, fmt.Sprintf("Last run: %s", task.LatestCompleted.Format("2006-01-02")))
		}
		if len(dateParts) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
		}
	}

	if options.ShowFlux && task.Flux != "" {
		fmt.Fprintf(sb, "%sFlux:\n", indent)
		for _, line := range strings.Split(strings.TrimRight(task.Flux, "\n"), "\n") {
			fmt.Fprintf(sb, "%s  %s\n", indent, line)
		}
	}
}

// formatSchedule renders the task schedule in a single line
func formatSchedule(task TaskInfo) string {
	switch {
	case task.Every != "" && task.Offset != "":
		return fmt.Sprintf("every %s (offset %s)", task.Every, task.Offset)
	case task.Every != "":
		return fmt.Sprintf("every %s", task.Every)
	case task.Cron != "":
		return fmt.Sprintf("cron %q", task.Cron)
	default:
		return ""
	}
}
