// Command fiskread retrieves fiscal documents from a POSNET-compatible
// printer over FSP, and decodes the resulting .BIN archive files.
//
// It wires github.com/spf13/cobra as the command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/czajorlukasz/fiskread/internal/config"
	"github.com/czajorlukasz/fiskread/internal/xlog"
)

var (
	configPath string
	verbosity  int
	logger     *xlog.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "fiskread",
		Short: "Retrieve and decode POSNET fiscal printer archives over FSP",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (0=quiet)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger = xlog.New(os.Stderr, verbosity)
	}

	root.AddCommand(newRetrieveCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newMediumCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies defaults, then an optional --config TOML file. CLI
// flags take precedence over both when explicitly set by the caller.
func loadConfig() (config.File, error) {
	cfg := config.Defaults()
	if configPath == "" {
		return cfg, nil
	}
	return config.Load(configPath, cfg)
}
