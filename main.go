package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rm-hull/png-chunks/cmd"
	"github.com/rm-hull/png-chunks/internal"
	"github.com/spf13/cobra"
)

func main() {
	var (
		width, height uint32
		depth         uint8
		colour        string
		asJSON        bool
		verify        bool
		recompress    bool
		level         uint8
		sigma         float64
		frameDelay    float64
		renderOpts    cmd.RenderOptions
		port          int
		debug         bool
	)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "png-chunks",
		Long: `Minimal PNG chunk codec`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return internal.ConfigureCompression()
		},
		SilenceUsage: true,
	}

	drawCmd := &cobra.Command{
		Use:   "draw <output.png> [--width <px>] [--height <px>] [--depth <bits>] [--colour <type>]",
		Short: "Draw the diagonals of a blank image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Draw(args[0], width, height, depth, colour)
		},
	}
	drawCmd.Flags().Uint32Var(&width, "width", 101, "Image width in pixels")
	drawCmd.Flags().Uint32Var(&height, "height", 101, "Image height in pixels")
	drawCmd.Flags().Uint8Var(&depth, "depth", 1, "Bit depth")
	drawCmd.Flags().StringVar(&colour, "colour", "grayscale", "Colour type: grayscale, rgb, palette, grayscale+alpha or rgb+alpha")

	inspectCmd := &cobra.Command{
		Use:   "inspect <file.png> [--json] [--verify]",
		Short: "List the chunks of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Inspect(os.Stdout, args[0], asJSON, verify)
		},
	}
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	inspectCmd.Flags().BoolVar(&verify, "verify", false, "Check the CRC of every chunk")

	resaveCmd := &cobra.Command{
		Use:   "resave <input.png> <output.png> [--recompress]",
		Short: "Decode a PNG file and write it back out",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Resave(args[0], args[1], recompress)
		},
	}
	resaveCmd.Flags().BoolVar(&recompress, "recompress", false, "Inflate and re-deflate the image data")

	renderCmd := &cobra.Command{
		Use:   "render <input.png> <output.png> [--blur <sigma>] [--width <px>] [--height <px>] [--invert] [--threshold <1-255>]",
		Short: "Decode the pixel data of a grayscale PNG and post-process it",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Render(args[0], args[1], renderOpts)
		},
	}
	renderCmd.Flags().Float64Var(&renderOpts.Sigma, "blur", 0, "Gaussian blur sigma")
	renderCmd.Flags().IntVar(&renderOpts.Width, "width", 0, "Resample to this width")
	renderCmd.Flags().IntVar(&renderOpts.Height, "height", 0, "Resample to this height")
	renderCmd.Flags().BoolVar(&renderOpts.Invert, "invert", false, "Invert the image")
	renderCmd.Flags().Uint8Var(&renderOpts.Threshold, "threshold", 0, "Binarise at this luminance after resampling (0 disables)")

	convertCmd := &cobra.Command{
		Use:   "convert <input.png> <output.png> [--level <0-255>] [--blur <sigma>]",
		Short: "Convert any PNG into a 1-bit grayscale PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Convert(args[0], args[1], level, sigma)
		},
	}
	convertCmd.Flags().Uint8Var(&level, "level", 128, "Luminance at which a pixel turns white")
	convertCmd.Flags().Float64Var(&sigma, "blur", 0, "Gaussian blur sigma applied before thresholding")

	animateCmd := &cobra.Command{
		Use:   "animate <output.png> <frame.png>... [--delay <seconds>]",
		Short: "Join grayscale PNG files into an animated PNG",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Animate(args[1:], args[0], frameDelay)
		},
	}
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 1.0, "Seconds per frame")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion()
			internal.EnvironmentVars("PNG_")
			cmd.ApiServer(port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", defaultPort(), "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion()
		},
	}

	rootCmd.AddCommand(drawCmd, inspectCmd, resaveCmd, renderCmd, convertCmd, animateCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func defaultPort() int {
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		return port
	}
	return 8080
}
