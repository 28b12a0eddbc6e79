package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"learnpath/cmd/learnpath/ui"

	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var formats = []string{formatTable, formatJSON, formatMarkdown}

func validFormat(f string) bool { return slices.Contains(formats, f) }

// field is one headline key/value pair of a view.
type field struct {
	Key   string
	Value string
}

type noteKind int

const (
	noteInfo noteKind = iota
	noteWarning
	noteSuccess
)

// note is a closing line of a view.
type note struct {
	Kind noteKind
	Text string
}

// view is what a command prints: data for JSON output, a title with fields
// and tables for the human formats.
type view struct {
	Title  string
	Fields []field
	Tables []*ui.SimpleTable
	Notes  []note
	Data   any
}

func (v *view) add(key, value string) {
	v.Fields = append(v.Fields, field{Key: key, Value: value})
}

func (v *view) addf(key, format string, args ...any) {
	v.add(key, fmt.Sprintf(format, args...))
}

func (v *view) table(t *ui.SimpleTable) {
	v.Tables = append(v.Tables, t)
}

func (v *view) note(format string, args ...any) {
	v.Notes = append(v.Notes, note{Kind: noteInfo, Text: fmt.Sprintf(format, args...)})
}

func (v *view) warn(format string, args ...any) {
	v.Notes = append(v.Notes, note{Kind: noteWarning, Text: fmt.Sprintf(format, args...)})
}

func (v *view) success(format string, args ...any) {
	v.Notes = append(v.Notes, note{Kind: noteSuccess, Text: fmt.Sprintf(format, args...)})
}

// render writes v to w in the given format.
func render(w io.Writer, format string, v view) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatMarkdown:
		return renderMarkdown(w, v)
	default:
		_, err := io.WriteString(w, renderTable(v, ui.DefaultStyles()))
		return err
	}
}

func renderTable(v view, styles ui.Styles) string {
	var sb strings.Builder
	if v.Title != "" {
		sb.WriteString(styles.Title.Render(v.Title))
		sb.WriteString("\n")
		sb.WriteString(styles.RenderDivider(max(len(v.Title), 40)))
		sb.WriteString("\n")
	}
	for _, f := range v.Fields {
		sb.WriteString(styles.KeyValue(f.Key, f.Value))
		sb.WriteString("\n")
	}
	if len(v.Fields) > 0 {
		sb.WriteString("\n")
	}
	for _, t := range v.Tables {
		sb.WriteString(t.View(styles))
	}
	for _, n := range v.Notes {
		switch n.Kind {
		case noteWarning:
			sb.WriteString(styles.Warning.Render("! " + n.Text))
		case noteSuccess:
			sb.WriteString(styles.Success.Render("✓ " + n.Text))
		default:
			sb.WriteString(styles.Info.Render(n.Text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func markdownSource(v view) string {
	var sb strings.Builder
	if v.Title != "" {
		sb.WriteString("# " + v.Title + "\n\n")
	}
	for _, f := range v.Fields {
		sb.WriteString("- **" + f.Key + ":** " + f.Value + "\n")
	}
	if len(v.Fields) > 0 {
		sb.WriteString("\n")
	}
	for _, t := range v.Tables {
		sb.WriteString(t.Markdown())
	}
	for _, n := range v.Notes {
		switch n.Kind {
		case noteWarning:
			sb.WriteString("> **Warning:** " + n.Text + "\n\n")
		case noteSuccess:
			sb.WriteString("> **Done:** " + n.Text + "\n\n")
		default:
			sb.WriteString("> " + n.Text + "\n\n")
		}
	}
	return sb.String()
}

func renderMarkdown(w io.Writer, v view) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdownSource(v))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
