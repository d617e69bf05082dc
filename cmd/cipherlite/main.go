// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

// Command cipherlite is an operational CLI for encrypted SQLite stores:
// execute statements, dump result tables, rotate passphrases, and ship
// snapshots to object storage.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cipherlite "github.com/cipherlite/cipherlite-go/pkg"
	"github.com/cipherlite/cipherlite-go/pkg/contracts"
	"github.com/cipherlite/cipherlite-go/pkg/snapshot"
)

var (
	flagDatabase  string
	flagConfig    string
	flagDelimiter string
)

func main() {
	root := &cobra.Command{
		Use:           "cipherlite",
		Short:         "Operate on encrypted SQLite stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagDatabase, "database", "", "connection URL (sqlite://path?key=passphrase)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")

	execCmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Exec(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d\n", conn.RowsAffected())
			return nil
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <sql>",
		Short: "Run a query and print the result table as delimited text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			text, err := conn.ExecuteForString(cmd.Context(), args[0], flagDelimiter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&flagDelimiter, "delimiter", ",", "field delimiter")

	rekeyCmd := &cobra.Command{
		Use:   "rekey <new-passphrase>",
		Short: "Re-encrypt the store under a new passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			code, err := conn.Rekey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rekeyed (status %d)\n", code)
			return nil
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or restore database snapshots in object storage",
	}
	snapshotCmd.AddCommand(
		&cobra.Command{
			Use:   "save <object>",
			Short: "Upload the database file as a snapshot object",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(flagConfig)
				if err != nil {
					return err
				}
				conn, err := connect(cmd)
				if err != nil {
					return err
				}
				defer conn.Close()

				store, err := snapshot.New(cmd.Context(), cfg.Snapshot)
				if err != nil {
					return err
				}
				return store.Save(cmd.Context(), conn, args[0])
			},
		},
		&cobra.Command{
			Use:   "restore <object> <dest-path>",
			Short: "Download a snapshot object to a local path",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(flagConfig)
				if err != nil {
					return err
				}
				store, err := snapshot.New(cmd.Context(), cfg.Snapshot)
				if err != nil {
					return err
				}
				return store.Restore(cmd.Context(), args[0], args[1])
			},
		},
	)

	root.AddCommand(execCmd, dumpCmd, rekeyCmd, snapshotCmd)

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// connect resolves the database URL from the flag or the config file and
// establishes a connection.
func connect(cmd *cobra.Command) (contracts.IConnection, error) {
	url := flagDatabase
	if url == "" {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		url = cfg.Database.URL
	}
	if url == "" {
		return nil, fmt.Errorf("no database URL: pass --database or set database.url in the config file")
	}
	return cipherlite.EstablishURL(cmd.Context(), url, nil)
}
