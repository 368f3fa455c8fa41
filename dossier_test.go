package dossier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := dossier.Errorf(dossier.ENOTFOUND, "page %q not found", "https://example.com")

	assert.Equal(t, dossier.ENOTFOUND, dossier.ErrorCode(err))
	assert.Equal(t, "page \"https://example.com\" not found", dossier.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dossier.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dossier.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("scrape: %w", dossier.Errorf(dossier.ETIMEOUT, "deadline exceeded"))

	assert.Equal(t, dossier.ETIMEOUT, dossier.ErrorCode(err))
	assert.Equal(t, "deadline exceeded", dossier.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, dossier.EINTERNAL, dossier.ErrorCode(err))
	assert.Equal(t, "Internal error.", dossier.ErrorMessage(err))
}
