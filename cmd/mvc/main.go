package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mdouchement/medvault/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &cobra.Command{
		Use:     "mvc",
		Short:   "MedVault client, your medical records from the terminal",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.PersistentFlags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(loginCmd)
	c.AddCommand(registerCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(statusCmd)
	c.AddCommand(recordsCmd)
	c.AddCommand(backupCmd)

	recordShowCmd.Flags().BoolVar(&raw, "raw", false, "Dump the normalized record")
	recordCmd.AddCommand(recordShowCmd)
	recordAddCmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Attach a PDF or an image (repeatable)")
	recordAddCmd.Flags().IntSliceVar(&drop, "drop", nil, "Indexes of the attached files to remove before submission")
	recordCmd.AddCommand(recordAddCmd)
	c.AddCommand(recordCmd)

	backupCmd.Flags().StringVarP(&dir, "dir", "d", ".", "Backup directory")

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// run loads the configuration and executes fn with a ready to use application.
func run(fn func(ctx context.Context, app *client.App) error) error {
	config, err := client.LoadConfig(cfg)
	if err != nil {
		return err
	}

	app, err := client.New(config, client.Readline{}, os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(context.Background(), app)
}

var (
	raw   bool
	files []string
	drop  []int
	dir   string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to the MedVault server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Login(ctx)
			})
		},
	}

	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account on the MedVault server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Register(ctx)
			})
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from a MedVault server session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Logout(ctx)
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, app *client.App) error {
				return app.Status()
			})
		},
	}

	recordsCmd = &cobra.Command{
		Use:   "records",
		Short: "List your medical records",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Records(ctx)
			})
		},
	}

	recordCmd = &cobra.Command{
		Use:   "record",
		Short: "Manage a medical record",
		Args:  cobra.NoArgs,
	}

	recordShowCmd = &cobra.Command{
		Use:   "show ID",
		Short: "Show the details of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Show(ctx, args[0], raw)
			})
		},
	}

	recordAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a new record",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Add(ctx, client.AddOptions{
					Files: files,
					Drop:  drop,
				})
			})
		},
	}

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup your records",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *client.App) error {
				return app.Backup(ctx, dir)
			})
		},
	}
)
