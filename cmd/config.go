package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/loaneda-cli/internal/config"
	"github.com/KaramelBytes/loaneda-cli/internal/logging"
	"github.com/KaramelBytes/loaneda-cli/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set loaneda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		fmt.Printf("format: %s\n", c.Format)
		fmt.Printf("backend: %s\n", c.Backend)
		fmt.Printf("width_in: %.2f\n", c.WidthIn)
		fmt.Printf("height_in: %.2f\n", c.HeightIn)
		fmt.Printf("hist_bins: %d\n", c.HistBins)
		fmt.Printf("kde_points: %d\n", c.KDEPoints)
		fmt.Printf("bw_adjust: %.3f\n", c.BWAdjust)
		fmt.Printf("strict_ratio: %t\n", c.StrictRatio)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "format":
		f, err := render.ParseFormat(val)
		if err != nil {
			return err
		}
		c.Format = string(f)
	case "backend":
		b := strings.ToLower(val)
		if _, ok := render.Get(b, render.Config{}); !ok {
			return fmt.Errorf("invalid backend: %s (use %s)", val, strings.Join(render.Backends(), " or "))
		}
		c.Backend = b
	case "width_in", "height_in", "bw_adjust":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid positive float for %s: %v", key, val)
		}
		switch key {
		case "width_in":
			c.WidthIn = f
		case "height_in":
			c.HeightIn = f
		default:
			c.BWAdjust = f
		}
	case "hist_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for hist_bins: %v", val)
		}
		c.HistBins = i
	case "kde_points":
		i, err := strconv.Atoi(val)
		if err != nil || i < 2 {
			return fmt.Errorf("invalid int for kde_points: %v (need at least 2)", val)
		}
		c.KDEPoints = i
	case "strict_ratio":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for strict_ratio: %w", err)
		}
		c.StrictRatio = b
	case "log_level":
		if _, ok := logging.ParseLevel(val); !ok {
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
