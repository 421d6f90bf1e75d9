/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/internal/iodb"
	"github.com/p1data/p1db/internal/ioschema"
	"github.com/p1data/p1db/internal/iostore"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the record store schema",
		Long: `Create the p1db record store from scratch.

For the PostgreSQL store this command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates the schools table using GORM AutoMigrate
  4. Sets "C" collation on school keys and names

For the SQLite store it creates the database file and the schools
table, clearing existing records after confirmation.

Use --force to skip confirmation and drop existing data.

Examples:
  p1db create
  p1db create --force
  p1db create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing data without confirmation")

	return createCmd
}

func runCreate(
	_ *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()
	if cfg.Store.Driver == "sqlite" {
		return createSQLite(ctx, force)
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			if !confirm("Do you want to continue?") {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		gn.Info("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)
	gn.Info("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	nextSteps()
	return nil
}

func createSQLite(ctx context.Context, force bool) error {
	st, err := iostore.Open(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer st.Close()

	gn.Info("Opened SQLite store: <em>%s</em>", cfg.SQLitePath())

	n, err := st.Count(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if n > 0 {
		if !force {
			gn.Warn("\nWarning: Store contains %d school records.", n)
			if !confirm("Do you want to delete them?") {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		if _, err = st.Replace(ctx, nil); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("All records deleted")
	}

	nextSteps()
	return nil
}

func nextSteps() {
	gn.Info(`
Store is ready.

Next steps:
  - Edit <em>sources.yaml</em> to point to your data files
  - Run '<em>p1db populate</em>' to import data`)
}
