package cmd

import (
	"bytes"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/morphium/internal/testutil"
)

func TestMorphCommand(t *testing.T) {
	assert.NotNil(t, morphCmd)
	assert.True(t, strings.HasPrefix(morphCmd.Use, "morph"))
	assert.NotEmpty(t, morphCmd.Short)
	assert.NotEmpty(t, morphCmd.Long)
}

func TestMorphCommandFlags(t *testing.T) {
	flags := morphCmd.Flags()
	for _, name := range []string{"lines-a", "lines-b", "alpha", "output", "save-warped"} {
		assert.NotNil(t, flags.Lookup(name), "Expected flag '%s' not found", name)
	}
}

func TestMorphCommandRun(t *testing.T) {
	dir := t.TempDir()
	imgA := writeTestImage(t, dir, "a.png", color.NRGBA{R: 200, A: 255})
	imgB := writeTestImage(t, dir, "b.png", color.NRGBA{B: 200, A: 255})
	lines := writeLineFile(t, dir, "lines.json", testLines())
	output := filepath.Join(dir, "out.png")

	cmd := rootCmd
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"morph", imgA, imgB,
		"--lines-a", lines,
		"--lines-b", lines,
		"--alpha", "0.5",
		"-o", output,
	})
	require.NoError(t, cmd.Execute())

	out := testutil.LoadPNG(t, output)
	assert.Equal(t, 24, out.Bounds().Dx())
	assert.Equal(t, 24, out.Bounds().Dy())
}

func TestMorphCommandSaveWarped(t *testing.T) {
	dir := t.TempDir()
	imgA := writeTestImage(t, dir, "a.png", color.NRGBA{R: 80, G: 80, B: 80, A: 255})
	imgB := writeTestImage(t, dir, "b.png", color.NRGBA{R: 160, G: 160, B: 160, A: 255})
	lines := writeLineFile(t, dir, "lines.json", testLines())
	output := filepath.Join(dir, "out.png")

	cmd := rootCmd
	cmd.SetArgs([]string{
		"morph", imgA, imgB,
		"--lines-a", lines,
		"--lines-b", lines,
		"-o", output,
		"--save-warped",
	})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(dir, "out_warped_a.png"))
	assert.FileExists(t, filepath.Join(dir, "out_warped_b.png"))
}

func TestMorphCommandInvalidAlpha(t *testing.T) {
	dir := t.TempDir()
	imgA := writeTestImage(t, dir, "a.png", color.NRGBA{A: 255})
	imgB := writeTestImage(t, dir, "b.png", color.NRGBA{A: 255})
	lines := writeLineFile(t, dir, "lines.json", testLines())

	cmd := rootCmd
	cmd.SetArgs([]string{
		"morph", imgA, imgB,
		"--lines-a", lines,
		"--lines-b", lines,
		"--alpha", "1.5",
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
}

func TestMorphCommandMissingImage(t *testing.T) {
	dir := t.TempDir()
	lines := writeLineFile(t, dir, "lines.json", testLines())

	cmd := rootCmd
	cmd.SetArgs([]string{
		"morph", filepath.Join(dir, "missing.png"), filepath.Join(dir, "missing2.png"),
		"--lines-a", lines,
		"--lines-b", lines,
		"--alpha", "0.5",
	})
	assert.Error(t, cmd.Execute())
}

func TestMorphCommandResizesMismatchedInputs(t *testing.T) {
	dir := t.TempDir()
	imgA := writeTestImage(t, dir, "a.png", color.NRGBA{R: 50, A: 255})

	// Second image is larger and gets fitted onto the first image's canvas.
	big := filepath.Join(dir, "b.png")
	testutil.SavePNG(t, testutil.SolidImage(48, 48, color.NRGBA{B: 50, A: 255}), big)

	lines := writeLineFile(t, dir, "lines.json", testLines())
	output := filepath.Join(dir, "out.png")

	cmd := rootCmd
	cmd.SetArgs([]string{
		"morph", imgA, big,
		"--lines-a", lines,
		"--lines-b", lines,
		"--alpha", "0.5",
		"-o", output,
	})
	require.NoError(t, cmd.Execute())

	out := testutil.LoadPNG(t, output)
	assert.Equal(t, 24, out.Bounds().Dx())
}
