package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetform/fleetform/usecase/orchestrate"
)

// newCmdEndpoints lists the endpoints recorded by previous runs.
func newCmdEndpoints() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List recorded endpoints",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			dbURL, _ := cmd.Flags().GetString("db-url")

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "endpoints", dbURL)
			defer func() { cleanup(err) }()

			repo, err := newEndpointRepository(dbURL)
			if err != nil {
				return err
			}
			u := &orchestrate.UseCase{Endpoints: repo}
			records, err := u.ListEndpoints(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tURL\tRUN\tCREATED")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ClusterName, r.URL, r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
