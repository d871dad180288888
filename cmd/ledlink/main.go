package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/d2verb/ledlink/internal/config"
	"github.com/d2verb/ledlink/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
)

// Globals are flags shared by every command.
type Globals struct {
	Config  string        `short:"c" default:"ledlink.yaml" type:"path" help:"Config file"`
	Device  string        `short:"D" help:"Serial device (overrides config)"`
	Baud    int           `short:"b" help:"Baud rate (overrides config)"`
	Timeout time.Duration `default:"5s" help:"How long to wait for an endpoint reply (uploads add the payload's wire time)"`
}

type CLI struct {
	Globals

	Serve    ServeCmd    `cmd:"" help:"Run the endpoint on the serial link"`
	Status   StatusCmd   `cmd:"" help:"Show endpoint status"`
	Logs     LogsCmd     `cmd:"" help:"Show endpoint logs"`
	Ping     PingCmd     `cmd:"" help:"Check that the endpoint answers"`
	Upload   UploadCmd   `cmd:"" help:"Upload a file to the endpoint"`
	List     ListCmd     `cmd:"" name:"ls" help:"List artifacts"`
	Remove   RemoveCmd   `cmd:"" name:"rm" help:"Delete an artifact on the endpoint"`
	LED      LEDCmd      `cmd:"" name:"led" help:"Play an artifact on the LED grid"`
	RGB      RGBCmd      `cmd:"" name:"rgb" help:"Set a solid color"`
	Playlist PlaylistCmd `cmd:"" help:"Send and play a playlist"`
	Inspect  InspectCmd  `cmd:"" help:"Validate a local LED frame file"`

	Version            VersionCmd                   `cmd:"" help:"Show version"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

func main() {
	cli := CLI{}
	parser := kong.Must(&cli,
		kong.Name("ledlink"),
		kong.Description("Serial command endpoint for an LED controller"),
		kong.UsageOnError(),
	)

	kongplete.Complete(parser,
		kongplete.WithPredictor("artifact", newArtifactPredictor(config.DefaultConfigFile)),
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&cli.Globals); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode reports err to the user and maps it to a process exit code.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			ui.PrintError(exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError
}
