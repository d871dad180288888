package main

import (
	"strings"

	"github.com/posener/complete"

	"github.com/d2verb/ledlink/internal/config"
	"github.com/d2verb/ledlink/internal/registry"
)

// artifactPredictor completes artifact names from the configured
// artifact directory.
type artifactPredictor struct {
	configPath string
}

// newArtifactPredictor returns a predictor reading the config at configPath.
// Completion runs before flags are parsed, so --config is not honored here.
func newArtifactPredictor(configPath string) complete.Predictor {
	return &artifactPredictor{configPath: configPath}
}

// Predict implements complete.Predictor interface.
func (p *artifactPredictor) Predict(args complete.Args) []string {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil
	}
	return completeArtifacts(cfg.ArtifactDir, cfg.ArtifactExt, args.Last)
}

// completeArtifacts returns stored artifact names starting with partial.
func completeArtifacts(dir, ext, partial string) []string {
	names, err := registry.New(dir).List(ext)
	if err != nil {
		return nil
	}

	results := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, partial) {
			results = append(results, name)
		}
	}
	return results
}
