package main

import (
	"fmt"

	"github.com/d2verb/ledlink/internal/ui"
)

type RemoveCmd struct {
	Name string `arg:"" predictor:"artifact" help:"Artifact to delete"`
}

func (c *RemoveCmd) Run(g *Globals) error {
	cl, _, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.Delete(c.Name); err != nil {
		return err
	}
	// DELETE has no reply; the outcome is only in the endpoint log.
	ui.PrintSuccess(fmt.Sprintf("Delete requested: %s", c.Name))
	return nil
}
