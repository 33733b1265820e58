package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"facecheck/config"
	"facecheck/verifier"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Compare photos against the reference photo",
	Long: `Compare every given photo against the reference photo and print one result per photo.

Examples:
  # Single photo
  facecheck check photo.jpg

  # A whole directory, as JSON
  facecheck check --json photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("json", false, "Output as JSON")
}

type fileResult struct {
	File string `json:"file"`
	verifier.Status
	Error string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	checker := verifier.New(config.REFERENCE_NAME, config.FACE_MATCH_THRESHOLD)
	if err := checker.Initialize(loadModels, referenceFile(config.REFERENCE_IMAGE)); err != nil {
		return fmt.Errorf("%s: %w", checker.Status().Message, err)
	}
	defer checker.Close()

	var bar *progressbar.ProgressBar
	if len(args) > 1 {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Checking photos"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	results := checkFiles(checker, args, func() {
		if bar != nil {
			bar.Add(1)
		}
	})
	if bar != nil {
		bar.Finish()
	}
	return printResults(cmd.OutOrStdout(), results, jsonOutput)
}

func checkFiles(checker *verifier.Verifier, files []string, progress func()) []fileResult {
	results := make([]fileResult, 0, len(files))
	for _, file := range files {
		result := fileResult{File: file}
		data, err := os.ReadFile(file)
		if err != nil {
			result.Status = verifier.Status{Kind: verifier.KindError, Message: verifier.MessageAnalysisFailed}
			result.Error = err.Error()
		} else {
			result.Status, err = checker.Check(data)
			if err != nil {
				result.Error = err.Error()
			}
		}
		results = append(results, result)
		progress()
	}
	return results
}

func printResults(w io.Writer, results []fileResult, jsonOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s: %s\n", filepath.Base(r.File), r.Message); err != nil {
			return err
		}
	}
	return nil
}
