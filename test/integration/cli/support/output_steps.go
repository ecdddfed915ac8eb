package support

import (
	"fmt"
	"image/gif"
	"image/png"
	"os"

	"github.com/cucumber/godog"
)

// RegisterOutputSteps registers steps that inspect generated output files.
func (testCtx *TestContext) RegisterOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should not exist$`, testCtx.theFileShouldNotExist)
	sc.Step(`^the file "([^"]*)" should be a (\d+)x(\d+) PNG image$`, testCtx.theFileShouldBeAPNGImage)
	sc.Step(`^the file "([^"]*)" should be a GIF animation with (\d+) frames$`, testCtx.theFileShouldBeAGIFAnimation)
}

func (testCtx *TestContext) theFileShouldExist(name string) error {
	if _, err := os.Stat(testCtx.TempPath(name)); err != nil {
		return fmt.Errorf("expected file %s to exist: %w", name, err)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldNotExist(name string) error {
	if _, err := os.Stat(testCtx.TempPath(name)); err == nil {
		return fmt.Errorf("expected file %s to not exist", name)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldBeAPNGImage(name string, width, height int) error {
	f, err := os.Open(testCtx.TempPath(name)) //nolint:gosec // G304: Test output with controlled paths
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%s is not a valid PNG: %w", name, err)
	}

	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		return fmt.Errorf("%s is %dx%d, expected %dx%d",
			name, img.Bounds().Dx(), img.Bounds().Dy(), width, height)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldBeAGIFAnimation(name string, frames int) error {
	f, err := os.Open(testCtx.TempPath(name)) //nolint:gosec // G304: Test output with controlled paths
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return fmt.Errorf("%s is not a valid GIF: %w", name, err)
	}

	if len(anim.Image) != frames {
		return fmt.Errorf("%s has %d frames, expected %d", name, len(anim.Image), frames)
	}
	return nil
}
