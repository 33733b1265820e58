package cmd

import (
	"fmt"
	"os"

	"facecheck/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facecheck",
	Short: "Checks whether photos show the same person as a reference photo",
	Long: `facecheck computes a face descriptor for a reference photo and compares the
descriptor of every checked photo against it. Photos closer than the configured
distance threshold are reported as the same person.

Settings come from the environment (or a .env file), flags override them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.MODELS_DIR, "models", config.MODELS_DIR, "Directory with the dlib models")
	rootCmd.PersistentFlags().StringVar(&config.REFERENCE_IMAGE, "reference", config.REFERENCE_IMAGE, "Reference photo")
	rootCmd.PersistentFlags().Float64Var(&config.FACE_MATCH_THRESHOLD, "threshold", config.FACE_MATCH_THRESHOLD, "Distance below which faces match")
}
