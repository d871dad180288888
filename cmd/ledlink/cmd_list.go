package main

import (
	"os"
	"path/filepath"

	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/ui"
)

type ListCmd struct {
	Local bool `short:"l" help:"List this host's artifact directory instead of asking the endpoint"`
}

func (c *ListCmd) Run(g *Globals) error {
	if c.Local {
		return c.listLocal(g)
	}

	cl, cfg, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	names, err := cl.List()
	if err != nil {
		return mapReplyError(err, cfg.Device)
	}
	ui.PrintRemoteList(names)
	return nil
}

func (c *ListCmd) listLocal(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	items, err := localArtifacts(cfg.ArtifactDir, cfg.ArtifactExt)
	if err != nil {
		return err
	}
	ui.PrintArtifactList(items)
	return nil
}

// localArtifacts lists stored artifacts with their sizes.
func localArtifacts(dir, ext string) ([]ui.ArtifactInfo, error) {
	names, err := registry.New(dir).List(ext)
	if err != nil {
		return nil, err
	}

	items := make([]ui.ArtifactInfo, 0, len(names))
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue // Removed since listing
		}
		items = append(items, ui.ArtifactInfo{Name: name, Size: info.Size()})
	}
	return items, nil
}
