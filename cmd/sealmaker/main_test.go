package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seal "github.com/gcslaoli/seal-maker-go"
)

func TestVerifyOutput(t *testing.T) {
	ctx := context.Background()
	renderer := seal.NewRenderer(seal.WithFontBook(seal.NewFontBook()))
	spec := seal.Spec{Text: "Seal", Width: 200, Height: 80, FontFamily: "serif", Watermark: "wm"}

	data, _, _, err := renderer.RenderBytes(ctx, spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "seal.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.NoError(t, verifyOutput(ctx, renderer, spec, path))

	other := spec
	other.Text = "Other"
	assert.Error(t, verifyOutput(ctx, renderer, other, path))
	assert.Error(t, verifyOutput(ctx, renderer, spec, filepath.Join(t.TempDir(), "missing.png")))
}
