package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
)

// tramaHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func tramaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateOptionalDate accepts empty, YYYY-MM-DD or DD/MM/YYYY.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if domain.ParseDate(s) == nil {
		return fmt.Errorf("use YYYY-MM-DD or DD/MM/YYYY")
	}
	return nil
}

// validateOptionalFloat accepts empty or a non-negative number.
func validateOptionalFloat(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// taskFormValues carries the string form state for the interactive editor.
type taskFormValues struct {
	Title       string
	Description string
	Status      string
	Priority    string
	StartDate   string
	EndDate     string
	Estimate    string
	Responsible string
}

// newTaskFormValues seeds the editor state from an existing node.
func newTaskFormValues(n *domain.Node) taskFormValues {
	v := taskFormValues{
		Title:       n.Title,
		Description: n.Description,
		Status:      domain.NormalizeStatus(n.Status).BackendCode(),
		Priority:    string(domain.NormalizePriority(n.Priority)),
		Responsible: domain.ResolveResponsibleName(n),
	}
	if n.StartDate != nil {
		v.StartDate = n.StartDate.Format("2006-01-02")
	}
	if n.EndDate != nil {
		v.EndDate = n.EndDate.Format("2006-01-02")
	}
	if n.EstimateHours != nil {
		v.Estimate = strconv.FormatFloat(*n.EstimateHours, 'f', -1, 64)
	}
	return v
}

// taskEditForm builds the interactive editor for a task.
func taskEditForm(v *taskFormValues) *huh.Form {
	statusOptions := make([]huh.Option[string], 0, len(domain.StatusOrder))
	for _, s := range domain.StatusOrder {
		statusOptions = append(statusOptions, huh.NewOption(s.Label(), s.BackendCode()))
	}
	priorityOptions := make([]huh.Option[string], 0, len(domain.PriorityOrder))
	for _, p := range domain.PriorityOrder {
		priorityOptions = append(priorityOptions, huh.NewOption(p.Label(), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&v.Description),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&v.Status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&v.Priority),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder(time.Now().Format("2006-01-02")).
				Value(&v.StartDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("End date").
				Placeholder(time.Now().AddDate(0, 0, 7).Format("2006-01-02")).
				Value(&v.EndDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Estimate hours (blank keeps derived value)").
				Placeholder("8").
				Value(&v.Estimate).
				Validate(validateOptionalFloat),
			huh.NewInput().
				Title("Responsible").
				Value(&v.Responsible),
		),
	).WithTheme(tramaHuhTheme()).WithShowHelp(false)
}
