package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/testutil"
)

// RegisterCommonSteps registers fixture creation and command execution steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I have a (\d+)x(\d+) (solid|gradient|checkerboard) test image "([^"]*)"$`, testCtx.iHaveATestImage)
	sc.Step(`^I have a feature line file "([^"]*)" with a horizontal line$`, testCtx.iHaveAHorizontalLineFile)
	sc.Step(`^I have a feature line file "([^"]*)" containing:$`, testCtx.iHaveALineFileContaining)
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
}

func (testCtx *TestContext) iHaveATestImage(width, height int, kind, name string) error {
	var img *image.NRGBA
	switch kind {
	case "solid":
		img = testutil.SolidImage(width, height, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
	case "gradient":
		img = testutil.GradientImage(width, height)
	case "checkerboard":
		img = testutil.CheckerboardImage(width, height, 8,
			color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			color.NRGBA{A: 255})
	default:
		return fmt.Errorf("unknown image kind %q", kind)
	}

	f, err := os.Create(testCtx.TempPath(name))
	if err != nil {
		return fmt.Errorf("failed to create test image: %w", err)
	}
	defer func() { _ = f.Close() }()

	return png.Encode(f, img)
}

func (testCtx *TestContext) iHaveAHorizontalLineFile(name string) error {
	lines := geometry.LineSet{{
		P: geometry.Point{X: 10, Y: 20},
		Q: geometry.Point{X: 50, Y: 20},
	}}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return os.WriteFile(testCtx.TempPath(name), data, 0o600)
}

func (testCtx *TestContext) iHaveALineFileContaining(name string, body *godog.DocString) error {
	// Validate the document is well-formed JSON before writing it out.
	var lines geometry.LineSet
	if err := json.Unmarshal([]byte(body.Content), &lines); err != nil {
		return fmt.Errorf("feature line doc string is not valid JSON: %w", err)
	}
	return os.WriteFile(testCtx.TempPath(name), []byte(body.Content), 0o600)
}

// iRunCommand executes the morph binary with the given arguments, with the
// scenario temp directory as working directory so bare file names resolve
// to the created fixtures.
func (testCtx *TestContext) iRunCommand(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 || fields[0] != "morph" {
		return fmt.Errorf("expected a morph command, got %q", command)
	}

	binPath := os.Getenv("MORPHIUM_BIN")
	if binPath == "" {
		binPath = "morph"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, fields[1:]...) //nolint:gosec // G204: Test commands come from feature files
	cmd.Dir = testCtx.TempDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	testCtx.LastDuration = time.Since(start)

	testCtx.LastCommand = command
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastExitCode = 0

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		testCtx.LastExitCode = exitErr.ExitCode()
	} else if err != nil {
		testCtx.LastExitCode = -1
	}

	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command %q failed with exit code %d:\n%s",
			testCtx.LastCommand, testCtx.LastExitCode, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command %q succeeded but was expected to fail:\n%s",
			testCtx.LastCommand, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q:\n%s", expected, testCtx.LastOutput)
	}
	return nil
}
