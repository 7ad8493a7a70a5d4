package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dtroode/imagerelay/internal/client"
)

func newRootCmd() *cobra.Command {
	var serverURL string

	root := &cobra.Command{
		Use:          "uploader",
		Short:        "Upload images through the relay",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "relay base URL")

	newClient := func() *client.Client { return client.New(serverURL, nil) }
	root.AddCommand(newPutCmd(newClient), newGetCmd(newClient))
	return root
}

func newPutCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "put <file>",
		Short: "Upload a file and print the relay response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			resp, err := newClient().Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(resp)
		},
	}
}

func newGetCmd(newClient func() *client.Client) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Download a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			n, err := newClient().Download(cmd.Context(), args[0], w)
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", n, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
