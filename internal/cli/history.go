package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verinews/verinews/internal/history"
	"github.com/verinews/verinews/internal/pipeline"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recent-analysis ledger",
	Long: `History shows the most recent analyses recorded by this machine, newest
first. The ledger keeps a bounded number of entries; older ones are dropped
as new analyses complete.`,
	RunE: runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded analyses",
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func loadLedger() *history.Ledger {
	cfg := buildConfig()
	store := history.NewFileStore(cfg.History.Path)
	ledger := history.NewLedger(store, cfg.History.Capacity)
	ledger.Load()
	return ledger
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ledger := loadLedger()
	pipeline.NewRenderer(false).RenderHistory(os.Stdout, ledger.Items())
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	ledger := loadLedger()
	if err := ledger.Clear(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	fmt.Println("History cleared.")
	return nil
}
