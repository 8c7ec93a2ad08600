package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/provider"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a summary of the backend state",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(cmd.Context(), client)
		if err != nil {
			return err
		}
		return writeStatus(cmd.OutOrStdout(), snap)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type snapshot struct {
	dashboard   *api.DashboardResponse
	focus       *api.FocusPlanResponse
	automations *api.AutomationsResponse
	provider    *api.ProviderState
}

// loadSnapshot fetches the four read endpoints concurrently. The first
// failure cancels the rest.
func loadSnapshot(ctx context.Context, client *api.Client) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.dashboard, err = client.Dashboard(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.focus, err = client.FocusPlan(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.automations, err = client.Automations(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.provider, err = client.ProviderState(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

func writeStatus(out io.Writer, snap snapshot) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	s := snap.dashboard.Summary
	fmt.Fprintln(w, "DASHBOARD\t")
	fmt.Fprintf(w, "  inbox\t%d / %d\n", s.CurrentInbox, s.InboxZeroTarget)
	fmt.Fprintf(w, "  automation rate\t%s\n", percent(s.AutomationRate))
	fmt.Fprintf(w, "  time saved\t%d min\n", s.TimeSavedMinutes)
	fmt.Fprintf(w, "  focus potential\t%d\n", s.FocusPotential())
	for _, q := range snap.dashboard.Queues {
		fmt.Fprintf(w, "  queue %s\t%d\n", q.Label, q.Count)
	}

	m := snap.focus.Metrics
	fmt.Fprintln(w, "FOCUS\t")
	fmt.Fprintf(w, "  cleared today\t%d / %d\n", m.ClearedToday, m.Goal)
	fmt.Fprintf(w, "  streak\t%d days\n", m.Streak)
	fmt.Fprintf(w, "  sessions planned\t%d\n", len(snap.focus.Sessions))

	o := snap.automations.Overview
	fmt.Fprintln(w, "AUTOMATIONS\t")
	fmt.Fprintf(w, "  active\t%d\n", o.Active)
	fmt.Fprintf(w, "  coverage\t%s\n", percent(o.AutomationCoverage))
	fmt.Fprintf(w, "  templates\t%d\n", len(snap.automations.Templates))

	fmt.Fprintln(w, "PROVIDER\t")
	fmt.Fprintf(w, "  status\t%s\n", provider.IntegrationStatus(false, snap.provider))
	if cfg := snap.provider.Config; cfg != nil {
		fmt.Fprintf(w, "  name\t%s (%s)\n", cfg.DisplayName, cfg.Provider)
		fmt.Fprintf(w, "  protocol\t%s\n", cfg.Connection.Protocol)
	}
	fmt.Fprintf(w, "  last sync\t%s\n", provider.FormatTimestamp(snap.provider.LastSync))
	fmt.Fprintf(w, "  messages fetched\t%d\n", snap.provider.MessagesFetched)
	return w.Flush()
}

func percent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}
