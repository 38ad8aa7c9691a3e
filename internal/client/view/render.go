package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/cache"
	"github.com/janisto/profilehub/internal/timeutil"
)

// Mode selects the listing layout.
type Mode string

const (
	ModeTable Mode = "table"
	ModeGrid  Mode = "grid"
)

// ValidMode reports whether s names a supported layout.
func ValidMode(s string) bool {
	return Mode(s) == ModeTable || Mode(s) == ModeGrid
}

// Render writes one page of results in the requested layout, followed by a
// paging summary line.
func Render(w io.Writer, result Result, mode Mode) error {
	if result.Total == 0 {
		_, err := fmt.Fprintln(w, "No profiles found")
		return err
	}

	var err error
	switch mode {
	case ModeGrid:
		err = renderGrid(w, result.Profiles)
	default:
		err = renderTable(w, result.Profiles)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Showing %d of %d profiles (page %d of %d)\n",
		len(result.Profiles), result.Total, result.Page+1, result.TotalPages)
	return err
}

func renderTable(w io.Writer, profiles []api.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tAGE\tCREATED\tSTATUS")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			p.Name, p.Email, p.Age, formatTime(p.CreatedAt), status(p))
	}
	return tw.Flush()
}

func renderGrid(w io.Writer, profiles []api.Profile) error {
	for _, p := range profiles {
		if _, err := fmt.Fprintf(w, "%s <%s>\n  Age %d, created %s%s\n\n",
			p.Name, p.Email, p.Age, formatTime(p.CreatedAt), gridSuffix(p)); err != nil {
			return err
		}
	}
	return nil
}

// RenderDetail writes a single profile, one field per line.
func RenderDetail(w io.Writer, p api.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	fmt.Fprintf(tw, "Age:\t%d\n", p.Age)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(p.UpdatedAt))
	if cache.IsLocal(p) {
		fmt.Fprintf(tw, "Status:\t%s\n", "pending sync")
	}
	return tw.Flush()
}

func status(p api.Profile) string {
	if cache.IsLocal(p) {
		return "pending sync"
	}
	return "synced"
}

func gridSuffix(p api.Profile) string {
	if cache.IsLocal(p) {
		return " (pending sync)"
	}
	return ""
}

func formatTime(t timeutil.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
