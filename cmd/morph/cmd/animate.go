package cmd

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/morphium/internal/common"
	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/morph"
	"github.com/MeKo-Tech/morphium/internal/utils"
)

// animateCmd represents the animate command.
var animateCmd = &cobra.Command{
	Use:   "animate <image-a> <image-b>",
	Short: "Render a morph animation as an animated GIF",
	Long: `Render the full morph sequence between two images and write it as an
animated GIF. The blend position runs evenly from 0 to 1 over the
requested number of steps; with --ping-pong the sequence plays back in
reverse after reaching the end, giving a seamless loop.

Examples:
  morph animate a.png b.png --lines-a a.json --lines-b b.json -o morph.gif
  morph animate a.png b.png --lines-a a.json --lines-b b.json --steps 21 --delay-ms 100 --ping-pong`,
	Args: cobra.ExactArgs(2),
	RunE: runAnimate,
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	linesAPath, _ := cmd.Flags().GetString("lines-a")
	linesBPath, _ := cmd.Flags().GetString("lines-b")
	output, _ := cmd.Flags().GetString("output")

	seqCfg := morph.DefaultSequenceConfig()
	if cfg.Animation.Steps > 0 {
		seqCfg.Steps = cfg.Animation.Steps
	}
	if cfg.Animation.MaxWorkers > 0 {
		seqCfg.MaxWorkers = cfg.Animation.MaxWorkers
	}
	seqCfg.PingPong = cfg.Animation.PingPong
	if cmd.Flags().Changed("steps") {
		seqCfg.Steps, _ = cmd.Flags().GetInt("steps")
	}
	if cmd.Flags().Changed("ping-pong") {
		seqCfg.PingPong, _ = cmd.Flags().GetBool("ping-pong")
	}

	delayMS := cfg.Animation.DelayMS
	if cmd.Flags().Changed("delay-ms") {
		delayMS, _ = cmd.Flags().GetInt("delay-ms")
	}
	if seqCfg.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", seqCfg.Steps)
	}
	if delayMS <= 0 {
		return fmt.Errorf("delay-ms must be positive, got %d", delayMS)
	}

	params, err := warpParamsFromConfig(cmd, cfg)
	if err != nil {
		return err
	}

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

		if !utils.SameSize(imgA, imgB) {
			bounds := imgA.Bounds()
			imgB, linesB, err = utils.FitToCanvas(imgB, linesB, bounds.Dx(), bounds.Dy())
		}
		return err
	})
	if err != nil {
		return err
	}

	var frames []*morph.Result
	err = stages.Time("render", func() error {
		var err error
		frames, err = morph.Sequence(cmd.Context(), imgA, imgB, linesA, linesB, seqCfg, params)
		return err
	})
	if err != nil {
		return err
	}

	err = stages.Time("encode", func() error {
		return writeGIF(output, frames, delayMS)
	})
	if err != nil {
		return err
	}

	slog.Info("Animation complete",
		"frames", len(frames), "steps", seqCfg.Steps, "ping_pong", seqCfg.PingPong,
		"output", output, "timing", stages.String())
	return nil
}

// writeGIF quantizes the frames to a shared palette and encodes them with
// the given per-frame delay.
func writeGIF(path string, frames []*morph.Result, delayMS int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, frame := range frames {
		bounds := frame.Blended.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, frame.Blended, bounds.Min)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delayMS/10) // GIF delay is in 1/100ths of a second
	}

	f, err := os.Create(path) //nolint:gosec // G304: Writing user-provided output path is expected
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return gif.EncodeAll(f, anim)
}

func init() {
	rootCmd.AddCommand(animateCmd)

	animateCmd.Flags().String("lines-a", "", "JSON feature line file for the first image (required)")
	animateCmd.Flags().String("lines-b", "", "JSON feature line file for the second image (required)")
	animateCmd.Flags().Int("steps", 11, "number of blend positions from 0 to 1")
	animateCmd.Flags().Int("delay-ms", 200, "delay between frames in milliseconds")
	animateCmd.Flags().Bool("ping-pong", false, "play the sequence back in reverse after the last frame")
	animateCmd.Flags().StringP("output", "o", "morph.gif", "output GIF path")
	_ = animateCmd.MarkFlagRequired("lines-a")
	_ = animateCmd.MarkFlagRequired("lines-b")
}
