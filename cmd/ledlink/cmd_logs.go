package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

type LogsCmd struct {
	Follow bool `short:"f" help:"Follow log output in real-time (tail -f)"`
	Player bool `short:"p" help:"Show player process output instead of the endpoint log"`
}

func (c *LogsCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	logPath := cfg.LogFile
	if c.Player {
		logPath = cfg.PlayerLog
	}

	// Check if log file exists
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s\nHint: Start the endpoint first with 'ledlink serve'", logPath)
	}

	args := []string{"tail"}
	if c.Follow {
		args = append(args, "-f")
	}
	args = append(args, logPath)

	tailPath, err := exec.LookPath("tail")
	if err != nil {
		return fmt.Errorf("tail command not found in PATH (install coreutils or similar)")
	}

	// Replace current process with tail
	return syscall.Exec(tailPath, args, os.Environ())
}
