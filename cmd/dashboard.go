package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/remote"
)

type dashboardRow struct {
	Resource    string `json:"resource"`
	Loaded      int    `json:"loaded"`
	Total       int    `json:"total"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Error       string `json:"error,omitempty"`
}

func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch the first page of every resource and show the totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(env *Env) error {
				// Failed stores still show up in the table with their error
				refreshErr := env.Session.Refresh(cmd.Context())

				var out []dashboardRow
				var rows [][]string
				for _, s := range env.Session.Summaries() {
					row := dashboardRow{
						Resource:    s.Kind.Plural,
						Loaded:      s.Loaded,
						Total:       s.Total,
						CurrentPage: s.CurrentPage,
						TotalPages:  s.TotalPages,
						Error:       remote.MessageOf(s.Err),
					}
					out = append(out, row)
					rows = append(rows, []string{
						row.Resource,
						strconv.Itoa(row.Loaded),
						strconv.Itoa(row.Total),
						strconv.Itoa(row.CurrentPage) + "/" + strconv.Itoa(row.TotalPages),
						row.Error,
					})
				}

				header := []string{"RESOURCE", "LOADED", "TOTAL", "PAGE", "ERROR"}
				if err := render(cmd.OutOrStdout(), env.Config.Output, out, header, rows); err != nil {
					return err
				}
				return refreshErr
			})
		},
	}
}
