// package formatter provides functions to export task lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	Text     Format = "txt"
	JSON     Format = "json"
)

// ParseFormat accepts a format name or common alias ("markdown", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "txt", "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, md, txt, json)", shared.ErrInvalidFlag, s)
	}
}

// TaskExport is one user's task list as returned by the server.
type TaskExport struct {
	Owner models.User   `json:"owner"`
	Tasks []models.Task `json:"tasks"`
}

func (e *TaskExport) split() (pending, completed []models.Task) {
	for _, t := range e.Tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// ExportToCSV converts a TaskExport to CSV format with columns: ID, Title, Description, Completed
func ExportToCSV(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Description", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range export.Tasks {
		record := []string{
			task.ID,
			task.Title,
			task.Description,
			strconv.FormatBool(task.Completed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a TaskExport to a Markdown checklist split into pending and completed sections
func ExportToMarkdown(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer
	pending, completed := export.split()

	buf.WriteString(fmt.Sprintf("# Tasks for %s\n\n", export.Owner.DisplayName()))
	buf.WriteString(fmt.Sprintf("**Pending**: %d\n", len(pending)))
	buf.WriteString(fmt.Sprintf("**Completed**: %d\n\n", len(completed)))

	section := func(title, mark string, tasks []models.Task) {
		buf.WriteString(fmt.Sprintf("## %s\n\n", title))
		if len(tasks) == 0 {
			buf.WriteString("_None_\n\n")
			return
		}
		for _, task := range tasks {
			buf.WriteString(fmt.Sprintf("- [%s] %s", mark, task.Title))
			if task.Description != "" {
				buf.WriteString(fmt.Sprintf(": %s", task.Description))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	section("Pending", " ", pending)
	section("Completed", "x", completed)

	return buf.Bytes(), nil
}

// ExportToText converts a TaskExport to plain text format
func ExportToText(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer
	pending, completed := export.split()

	buf.WriteString(fmt.Sprintf("Tasks for %s\n", export.Owner.DisplayName()))
	buf.WriteString(fmt.Sprintf("Pending: %d  Completed: %d\n\n", len(pending), len(completed)))

	for i, task := range export.Tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, mark, task.Title))
		if task.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", task.Description))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a TaskExport to indented JSON
func ExportToJSON(export *TaskExport) ([]byte, error) {
	if export.Tasks == nil {
		export = &TaskExport{Owner: export.Owner, Tasks: []models.Task{}}
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders export in the given format.
func Export(export *TaskExport, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export)
	case Text:
		return ExportToText(export)
	case JSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders export and writes it to path.
//
// Defaults to tasks.{format} in the working directory.
func WriteExport(export *TaskExport, format Format, path string) (string, error) {
	if path == "" {
		path = "tasks." + string(format)
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
