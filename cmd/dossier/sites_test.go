package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/dossier"
	main "github.com/fwojciec/dossier/cmd/dossier"
	"github.com/fwojciec/dossier/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists registered platforms", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Sites: goquery.NewDefaultSiteRegistry()}

		err := (&main.SitesCmd{}).Run(deps)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Len(t, lines, 16)
		assert.Equal(t, string(dossier.PlatformLinkedIn), lines[0])
		assert.Contains(t, lines, string(dossier.PlatformCrunchbase))
	})

	t.Run("names the extractor for a URL", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Sites: goquery.NewDefaultSiteRegistry()}

		err := (&main.SitesCmd{URL: "x.com/janedoe"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://x.com/janedoe: twitter\n", stdout.String())
	})

	t.Run("unknown domains fall back to team pages", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Sites: goquery.NewDefaultSiteRegistry()}

		err := (&main.SitesCmd{URL: "https://acme.example/team"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "company team pages only")
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Sites: goquery.NewDefaultSiteRegistry()}

		err := (&main.SitesCmd{URL: "ftp://example.com/"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
	})
}
