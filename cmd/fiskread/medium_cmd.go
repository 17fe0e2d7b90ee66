package main

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/czajorlukasz/fiskread/fspclient"
	"github.com/czajorlukasz/fiskread/medium"
)

func newMediumCmd() *cobra.Command {
	var (
		address  string
		port     int
		startDir string
	)

	cmd := &cobra.Command{
		Use:   "medium",
		Short: "Read and decode EJ0/medium.dat from a printer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if address == "" {
				address = cfg.Printer.Address
			}
			if address == "" {
				return fmt.Errorf("medium: --address (or printer.address in --config) is required")
			}
			if !cmd.Flags().Changed("start-dir") && cfg.Printer.StartDir != "" {
				startDir = cfg.Printer.StartDir
			}

			client, err := fspclient.New(fmt.Sprintf("%s:%d", address, port), fspclient.WithLogger(logger))
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.ReadFile(context.Background(), path.Join(startDir, "medium.dat"))
			if err != nil {
				return err
			}
			client.Farewell(context.Background())

			info, err := medium.Decode(data)
			if err != nil {
				return err
			}
			fmt.Printf("device_prefix: %s\n", info.DevicePrefix)
			fmt.Printf("model: %s\n", info.Model())
			fmt.Printf("device_id: 0x%08X\n", info.DeviceID)
			fmt.Printf("medium_number: %d\n", info.MediumNumber)
			fmt.Printf("first_doc_number: %d\n", info.FirstDocNumber)
			fmt.Printf("registration_number: %s\n", info.RegistrationNumber)
			fmt.Printf("tax_id: %s\n", info.TaxID)
			fmt.Printf("operating_mode: %d\n", info.OperatingMode)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "printer IP address or hostname")
	cmd.Flags().IntVar(&port, "port", 2121, "FSP port")
	cmd.Flags().StringVar(&startDir, "start-dir", "EJ0", "archive root directory")
	return cmd
}
