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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/internal/iogeo"
	"github.com/p1data/p1db/internal/iopopulate"
	"github.com/p1data/p1db/internal/ioregistry"
	"github.com/p1data/p1db/internal/iosources"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/sources"
	"github.com/spf13/cobra"
)

// getPopulateCmd returns the populate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPopulateCmd() *cobra.Command {
	var (
		sourceIDs string
		noGeocode bool
	)

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Populate the record store with P1 statistics",
		Long: `Import P1 registration statistics from the sources in sources.yaml.

This command:
  1. Opens the configured record store
  2. Reads sources.yaml to discover JSON files and registry pulls
  3. Reconciles scraped, curated and registry records into one
     record per school, the last source wins for statistics
  4. Scores competitiveness of every school
  5. Adds contact data from the school registry
  6. Geocodes schools without coordinates
  7. Replaces the stored records in one transaction

Data sources are configured in: ~/.config/p1db/sources.yaml

Examples:
  # Import all sources from sources.yaml
  p1db populate

  # Import specific sources only
  p1db populate --source-ids 1,3
  p1db populate -s 2-

  # Skip geocoding
  p1db populate --no-geocode`,
		Aliases: []string{"add"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPopulate(cmd, sourceIDs, noGeocode)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	populateCmd.Flags().StringVarP(
		&sourceIDs, "source-ids", "s", "",
		"data source IDs or ranges to import, e.g. 1,3-5 (empty = all)",
	)
	populateCmd.Flags().BoolVar(
		&noGeocode, "no-geocode", false,
		"do not geocode schools without coordinates",
	)

	return populateCmd
}

func runPopulate(
	cmd *cobra.Command,
	sourceIDs string,
	noGeocode bool,
) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	var populateOpts []config.Option
	if cmd.Flags().Changed("source-ids") {
		ids, err := filterSources(sourceIDs)
		if err != nil {
			return err
		}
		populateOpts = append(populateOpts, config.OptPopulateSourceIDs(ids))
	}
	if cmd.Flags().Changed("no-geocode") {
		withGeocoding := !noGeocode
		populateOpts = append(
			populateOpts,
			config.OptPopulateWithGeocoding(&withGeocoding),
		)
	}
	if len(populateOpts) > 0 {
		cfg.Update(populateOpts)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	populator := iopopulate.New(st, iogeo.New(cfg), ioregistry.New(cfg))

	gn.Info("Starting import of P1 statistics...")
	if _, err = populator.Populate(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
	 - Run '<em>p1db match "school name"</em>' to check the data
	 - Run '<em>p1db serve</em>' to start the API`)
	return nil
}

// filterSources turns a filter such as "1,3-5" into source IDs.
func filterSources(filter string) ([]int, error) {
	sc, err := iosources.New(cfg).Load()
	if err != nil {
		return nil, err
	}
	selected, warnings, err := sources.Filter(sc.DataSources, filter)
	if err != nil {
		return nil, iosources.SourcesConfigError(config.SourcesFilePath(cfg.HomeDir), err)
	}
	for _, v := range warnings {
		gn.Warn(v)
	}
	if len(selected) == 0 {
		return nil, iopopulate.NoSourcesError(nil)
	}
	res := make([]int, len(selected))
	for i, v := range selected {
		res[i] = v.ID
	}
	return res, nil
}
