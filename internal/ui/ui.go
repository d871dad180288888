// Package ui provides formatted output utilities for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Color functions for consistent styling.
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc() // Dimmed text (more readable than gray)
	Bold   = color.New(color.Bold).SprintFunc()
)

// Output is the destination for UI output.
// Defaults to os.Stdout but can be overridden for testing.
var Output io.Writer = os.Stdout

// FormatSize renders a byte count the way ls -h would, dimmed.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return Dim(humanize.Bytes(uint64(bytes)))
}

// StatusBadge returns a colored status indicator with label.
func StatusBadge(running bool) string {
	if running {
		return Green("● Running")
	}
	return Red("○ Not Running")
}

// EndpointStatus is what `ledlink status` shows.
type EndpointStatus struct {
	Running     bool
	PID         int
	Device      string
	BaudRate    int
	ArtifactDir string
	LogPath     string
}

// PrintStatus prints endpoint status in a formatted style.
func PrintStatus(s EndpointStatus) {
	fmt.Fprintf(Output, "%s %s\n", Bold("Status:"), StatusBadge(s.Running))
	if s.Running && s.PID > 0 {
		fmt.Fprintf(Output, "%s %d\n", Bold("PID:"), s.PID)
	}
	fmt.Fprintf(Output, "%s %s %s\n", Bold("Device:"), Blue(s.Device), Dim(fmt.Sprintf("(%d baud)", s.BaudRate)))
	fmt.Fprintf(Output, "%s %s\n", Bold("Artifacts:"), s.ArtifactDir)
	fmt.Fprintf(Output, "%s %s\n", Bold("Logs:"), s.LogPath)
}

// ArtifactInfo is one stored artifact for display.
type ArtifactInfo struct {
	Name string
	Size int64
}

// PrintArtifactList prints artifacts stored locally, with sizes.
func PrintArtifactList(items []ArtifactInfo) {
	if len(items) == 0 {
		fmt.Fprintln(Output, "No artifacts stored.")
		return
	}

	fmt.Fprintln(Output, Bold("Stored artifacts:"))
	for _, a := range items {
		fmt.Fprintf(Output, "  %s %s\n", Cyan(a.Name), Dim(fmt.Sprintf("(%s)", humanize.Bytes(uint64(max(a.Size, 0))))))
	}
}

// PrintRemoteList prints the names an endpoint reported over the link.
func PrintRemoteList(names []string) {
	if len(names) == 0 {
		fmt.Fprintln(Output, "No artifacts on endpoint.")
		return
	}

	fmt.Fprintln(Output, Bold("Endpoint artifacts:"))
	for _, n := range names {
		fmt.Fprintf(Output, "  %s\n", Cyan(n))
	}
}

// ArtifactDetails describes an inspected frame file.
type ArtifactDetails struct {
	Path      string
	Size      int64
	FrameSize int
	Frames    uint32
	SavedAt   time.Time
	Err       error
}

// PrintArtifactDetails prints frame file details. A validation error is
// shown in place of the OK badge, after whatever could be decoded.
func PrintArtifactDetails(d ArtifactDetails) {
	fmt.Fprintf(Output, "%s %s\n", Bold("Path:"), Blue(d.Path))
	fmt.Fprintf(Output, "%s %s\n", Bold("Size:"), humanize.Bytes(uint64(max(d.Size, 0))))
	fmt.Fprintf(Output, "%s %d bytes\n", Bold("Frame Size:"), d.FrameSize)
	if d.Frames > 0 {
		fmt.Fprintf(Output, "%s %s\n", Bold("Frames:"), humanize.Comma(int64(d.Frames)))
	}
	if !d.SavedAt.IsZero() && d.SavedAt.Unix() > 0 {
		fmt.Fprintf(Output, "%s %s %s\n", Bold("Saved:"),
			d.SavedAt.Format(time.RFC3339), Dim("("+humanize.Time(d.SavedAt)+")"))
	}
	if d.Err != nil {
		fmt.Fprintf(Output, "%s %s\n", Bold("Status:"), Red("✗ "+d.Err.Error()))
		return
	}
	fmt.Fprintf(Output, "%s %s\n", Bold("Status:"), Green("✓ Valid"))
}

// PrintSuccess prints a success message with green checkmark.
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", Green("✓"), message)
}

// PrintError prints an error message with red X.
func PrintError(message string) {
	fmt.Fprintf(Output, "%s %s\n", Red("✗"), message)
}

// PrintWarning prints a warning message with yellow exclamation.
func PrintWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", Yellow("⚠"), message)
}

// PrintInfo prints an info message with blue dot.
func PrintInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", Blue("•"), message)
}
