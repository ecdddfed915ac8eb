package cmd

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/morphium/internal/common"
	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/morph"
	"github.com/MeKo-Tech/morphium/internal/utils"
)

// morphCmd represents the morph command.
var morphCmd = &cobra.Command{
	Use:   "morph <image-a> <image-b>",
	Short: "Morph two images at a single blend position",
	Long: `Warp two images toward an intermediate line geometry and cross-dissolve
the warped results.

Feature lines for each image are read from JSON files, each holding an
array of line segments:

  [{"p": {"x": 10, "y": 20}, "q": {"x": 80, "y": 20}}, ...]

Both files must contain the same number of lines, in corresponding order.
If the images differ in size, the second image is resized to the first
image's canvas and its lines are rescaled to match.

Examples:
  morph morph a.png b.png --lines-a a.json --lines-b b.json --alpha 0.5
  morph morph a.png b.png --lines-a a.json --lines-b b.json --alpha 0.25 -o out.png --save-warped`,
	Args: cobra.ExactArgs(2),
	RunE: runMorph,
}

func runMorph(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	linesAPath, _ := cmd.Flags().GetString("lines-a")
	linesBPath, _ := cmd.Flags().GetString("lines-b")
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	output, _ := cmd.Flags().GetString("output")
	saveWarped, _ := cmd.Flags().GetBool("save-warped")

	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("alpha must be in [0,1], got %g", alpha)
	}

	params, err := warpParamsFromConfig(cmd, cfg)
	if err != nil {
		return err
	}
	opts := warpOptionsFromConfig(cmd, cfg)

	var stages common.StageTimes

	var (
		imgA, imgB     image.Image
		linesA, linesB geometry.LineSet
	)
	err = stages.Time("load", func() error {
		var err error
		if imgA, _, err = utils.LoadImage(args[0]); err != nil {
			return err
		}
		if imgB, _, err = utils.LoadImage(args[1]); err != nil {
			return err
		}
		if linesA, err = loadLineSet(linesAPath); err != nil {
			return err
		}
		if linesB, err = loadLineSet(linesBPath); err != nil {
			return err
		}

		// Bring the second image onto the first image's canvas.
		if !utils.SameSize(imgA, imgB) {
			bounds := imgA.Bounds()
			slog.Debug("Resizing second image to match",
				"width", bounds.Dx(), "height", bounds.Dy())
			imgB, linesB, err = utils.FitToCanvas(imgB, linesB, bounds.Dx(), bounds.Dy())
		}
		return err
	})
	if err != nil {
		return err
	}

	var result *morph.Result
	err = stages.Time("morph", func() error {
		var err error
		result, err = morph.Morph(cmd.Context(), imgA, imgB, linesA, linesB, alpha, params, opts)
		return err
	})
	if err != nil {
		return err
	}

	err = stages.Time("save", func() error {
		if err := utils.SaveImage(result.Blended, output); err != nil {
			return err
		}
		if saveWarped {
			base := strings.TrimSuffix(output, ".png")
			if err := utils.SaveImage(result.WarpedA, base+"_warped_a.png"); err != nil {
				return err
			}
			if err := utils.SaveImage(result.WarpedB, base+"_warped_b.png"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Morph complete", "alpha", alpha, "output", output, "timing", stages.String())
	return nil
}

func init() {
	rootCmd.AddCommand(morphCmd)

	morphCmd.Flags().String("lines-a", "", "JSON feature line file for the first image (required)")
	morphCmd.Flags().String("lines-b", "", "JSON feature line file for the second image (required)")
	morphCmd.Flags().Float64("alpha", 0.5, "blend position between the images (0 = first, 1 = second)")
	morphCmd.Flags().StringP("output", "o", "morph.png", "output image path")
	morphCmd.Flags().Bool("save-warped", false, "also save the two warped intermediates")
	_ = morphCmd.MarkFlagRequired("lines-a")
	_ = morphCmd.MarkFlagRequired("lines-b")
}
