package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("delegates to ExtractFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *dossier.Document
		want := []*dossier.Profile{{Name: "Jane Doe", SourceURL: "https://example.com/"}}
		s := &mock.Strategy{
			ExtractFn: func(_ context.Context, doc *dossier.Document) ([]*dossier.Profile, error) {
				calledWith = doc
				return want, nil
			},
		}

		doc := &dossier.Document{URL: "https://example.com/"}
		got, err := s.Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, doc, calledWith)
		assert.Equal(t, want, got)
	})
}
