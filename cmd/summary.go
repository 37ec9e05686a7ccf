package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/loaneda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumOutputPath string
	sumDelimiter  string
	sumJSON       bool
	sumStrict     bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarize the numbers behind the charts as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opt := analysisOptions(c)
		if cmd.Flags().Changed("strict-ratio") {
			opt.StrictRatio = sumStrict
		}
		a, err := loadAnalyzer(path, sumDelimiter, opt)
		if err != nil {
			return err
		}
		rep := a.Summarize(filepath.Base(path))

		var out []byte
		if sumJSON {
			out, err = utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary")
	summaryCmd.Flags().StringVar(&sumDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	summaryCmd.Flags().BoolVar(&sumJSON, "json", false, "emit JSON instead of Markdown")
	summaryCmd.Flags().BoolVar(&sumStrict, "strict-ratio", false, "fail the dti_ratio section on zero income")
}
