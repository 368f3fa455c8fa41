package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/dossier"
)

// Run executes the scrape command. Each result is written to stdout as one
// JSON document. Unsuccessful scrapes are still written; only rejected
// requests make the command fail.
func (c *ScrapeCmd) Run(deps *Dependencies) (err error) {
	if deps.Results != nil {
		defer func() {
			if err != nil && !isRejection(err) {
				_ = deps.Results.Abort()
				return
			}
			if cerr := deps.Results.Commit(); cerr != nil && err == nil {
				err = fmt.Errorf("commit results: %w", cerr)
			}
		}()
	}

	enc := json.NewEncoder(deps.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}

	var rejected int
	for _, url := range c.URLs {
		if deps.Limiter != nil {
			if !deps.Limiter.Allow(c.Client) {
				fmt.Fprintf(deps.Stderr, "error: rate limit exceeded for client %q, skipping %s (resets in %s)\n",
					c.Client, url, deps.Limiter.ResetAfter(c.Client).Round(time.Second))
				rejected++
				continue
			}
			if deps.Logger != nil {
				deps.Logger.Debug("rate limit", "client", c.Client, "remaining", deps.Limiter.Remaining(c.Client))
			}
		}

		result, err := deps.Scraper.Scrape(deps.Ctx, dossier.ScrapeRequest{
			URL:         url,
			MaxProfiles: c.MaxProfiles,
			Timeout:     c.Timeout,
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", url, dossier.ErrorMessage(err))
			rejected++
			continue
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if deps.Results != nil {
			if err := deps.Results.Save(deps.Ctx, result); err != nil {
				return fmt.Errorf("save result: %w", err)
			}
		}
	}

	if rejected > 0 {
		return dossier.Errorf(dossier.EINVALID, "%d of %d pages rejected", rejected, len(c.URLs))
	}
	return nil
}

func isRejection(err error) bool {
	return dossier.ErrorCode(err) == dossier.EINVALID
}
