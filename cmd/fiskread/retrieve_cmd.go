package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/czajorlukasz/fiskread/fspclient"
	"github.com/czajorlukasz/fiskread/retrieve"
	"github.com/czajorlukasz/fiskread/storage"
)

func newRetrieveCmd() *cobra.Command {
	var (
		address     string
		port        int
		locationID  string
		startDir    string
		startIndex  int
		pageSize    int
		storageRoot string
	)

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Walk a printer's archive and save every document/signature file found",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// CLI flags override the TOML/default config only when set.
			if address == "" {
				address = cfg.Printer.Address
			}
			if !cmd.Flags().Changed("port") && cfg.Printer.Port != 0 {
				port = cfg.Printer.Port
			}
			if locationID == "" {
				locationID = cfg.Printer.LocationID
			}
			if !cmd.Flags().Changed("start-dir") && cfg.Printer.StartDir != "" {
				startDir = cfg.Printer.StartDir
			}
			if !cmd.Flags().Changed("start-index") && cfg.Printer.StartIndex != 0 {
				startIndex = cfg.Printer.StartIndex
			}
			if !cmd.Flags().Changed("page-size") && cfg.Printer.PageSize != 0 {
				pageSize = cfg.Printer.PageSize
			}
			if storageRoot == "" {
				storageRoot = cfg.Printer.StorageRoot
			}
			if address == "" {
				return fmt.Errorf("retrieve: --address (or printer.address in --config) is required")
			}

			client, err := fspclient.New(fmt.Sprintf("%s:%d", address, port), fspclient.WithLogger(logger))
			if err != nil {
				return err
			}
			defer client.Close()

			sink := storage.New(storageRoot, locationID, "")

			rcfg := retrieve.Config{StartDir: startDir, PageSize: uint16(pageSize)}
			if cmd.Flags().Changed("start-index") || cfg.Printer.StartIndex != 0 {
				rcfg.StartIndex = &startIndex
			}
			orch := retrieve.New(client, sink, rcfg, logger)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			stats, err := orch.Run(ctx)
			client.Farewell(context.Background())
			fmt.Printf("found=%d saved=%d skipped=%d\n", stats.Found, stats.Saved, stats.Skipped)
			return err
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "printer IP address or hostname")
	cmd.Flags().IntVar(&port, "port", 2121, "FSP port")
	cmd.Flags().StringVar(&locationID, "location-id", "", "device location identifier, used in the storage path")
	cmd.Flags().StringVar(&startDir, "start-dir", "EJ0", "archive root directory")
	cmd.Flags().IntVar(&startIndex, "start-index", 0, "skip document numbers below this index")
	cmd.Flags().IntVar(&pageSize, "page-size", 4096, "preferred directory listing page size")
	cmd.Flags().StringVar(&storageRoot, "storage-root", "./data", "local directory to save files under")
	return cmd
}
