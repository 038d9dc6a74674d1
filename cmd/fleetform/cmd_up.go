package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetform/fleetform/config/fleetcfg"
	"github.com/fleetform/fleetform/usecase/orchestrate"
)

// newCmdUp provisions every configured target and deploys the workload.
func newCmdUp() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Provision all targets and deploy the workload",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			configPath, _ := cmd.Flags().GetString("config")
			dbURL, _ := cmd.Flags().GetString("db-url")

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "up", configPath)
			defer func() { cleanup(err) }()

			cfg, err := fleetcfg.Load(configPath)
			if err != nil {
				return err
			}
			env, err := fleetcfg.ReadEnv()
			if err != nil {
				return err
			}
			plans, err := orchestrate.BuildPlan(cfg, env)
			if err != nil {
				return err
			}
			repo, err := newEndpointRepository(dbURL)
			if err != nil {
				return err
			}

			u := &orchestrate.UseCase{Endpoints: repo}
			out, err := u.Up(ctx, orchestrate.UpInput{Plans: plans})
			if out != nil && len(out.URLs) > 0 {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TARGET\tURL")
				for _, r := range out.URLs {
					fmt.Fprintf(w, "%s\t%s\n", r.ClusterName, r.URL)
				}
				w.Flush()
			}
			return err
		},
	}
}
