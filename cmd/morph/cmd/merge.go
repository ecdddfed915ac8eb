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

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge <image-1> <image-2> <image-3>",
	Short: "Merge three images with barycentric weights",
	Long: `Warp three images toward a shared line geometry and blend them with
barycentric weights.

The shared geometry is the weighted combination of the three line sets,
so each image deforms toward a consensus shape before blending. Weights
are normalized to sum to one; equal weights give an even three-way mix.

Examples:
  morph merge 1.png 2.png 3.png --lines-1 l1.json --lines-2 l2.json --lines-3 l3.json
  morph merge 1.png 2.png 3.png --lines-1 l1.json --lines-2 l2.json --lines-3 l3.json \
    --t1 0.6 --t2 0.3 --t3 0.1 -o merged.png`,
	Args: cobra.ExactArgs(3),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	output, _ := cmd.Flags().GetString("output")
	saveWarped, _ := cmd.Flags().GetBool("save-warped")

	weights := geometry.Weights{}
	weights.T1, _ = cmd.Flags().GetFloat64("t1")
	weights.T2, _ = cmd.Flags().GetFloat64("t2")
	weights.T3, _ = cmd.Flags().GetFloat64("t3")

	params, err := warpParamsFromConfig(cmd, cfg)
	if err != nil {
		return err
	}
	opts := warpOptionsFromConfig(cmd, cfg)

	var stages common.StageTimes

	var imgs [3]image.Image
	var lineSets [3]geometry.LineSet
	err = stages.Time("load", func() error {
		for i := 0; i < 3; i++ {
			img, _, err := utils.LoadImage(args[i])
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString(fmt.Sprintf("lines-%d", i+1))
			lines, err := loadLineSet(path)
			if err != nil {
				return err
			}
			imgs[i] = img
			lineSets[i] = lines
		}
		return nil
	})
	if err != nil {
		return err
	}

	var result *morph.MergeResult
	err = stages.Time("merge", func() error {
		var err error
		result, err = morph.MergeMultiple(cmd.Context(), imgs, lineSets, weights, params, opts)
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
			for i, img := range result.Warped {
				if err := utils.SaveImage(img, fmt.Sprintf("%s_warped_%d.png", base, i+1)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Merge complete",
		"t1", result.Weights.T1, "t2", result.Weights.T2, "t3", result.Weights.T3,
		"output", output, "timing", stages.String())
	return nil
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().String("lines-1", "", "JSON feature line file for the first image (required)")
	mergeCmd.Flags().String("lines-2", "", "JSON feature line file for the second image (required)")
	mergeCmd.Flags().String("lines-3", "", "JSON feature line file for the third image (required)")
	mergeCmd.Flags().Float64("t1", 1.0/3.0, "weight of the first image")
	mergeCmd.Flags().Float64("t2", 1.0/3.0, "weight of the second image")
	mergeCmd.Flags().Float64("t3", 1.0/3.0, "weight of the third image")
	mergeCmd.Flags().StringP("output", "o", "merge.png", "output image path")
	mergeCmd.Flags().Bool("save-warped", false, "also save the three warped intermediates")
	_ = mergeCmd.MarkFlagRequired("lines-1")
	_ = mergeCmd.MarkFlagRequired("lines-2")
	_ = mergeCmd.MarkFlagRequired("lines-3")
}
