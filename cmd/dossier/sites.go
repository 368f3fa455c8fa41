package main

import (
	"fmt"

	"github.com/fwojciec/dossier"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	if c.URL == "" {
		for _, platform := range deps.Sites.List() {
			fmt.Fprintln(deps.Stdout, platform)
		}
		return nil
	}

	normalized, err := dossier.NormalizeURL(c.URL)
	if err != nil {
		return err
	}
	extractor := deps.Sites.GetForURL(normalized)
	if extractor == nil || extractor.Platform() == dossier.PlatformUnknown {
		fmt.Fprintf(deps.Stdout, "%s: no site extractor, company team pages only\n", normalized)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%s: %s\n", normalized, extractor.Platform())
	return nil
}
