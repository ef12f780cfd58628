package main

import (
	"sanitybox/internal/client"

	"github.com/spf13/cobra"
)

var (
	revisionID   string
	revisionTime string

	txIncludeContent bool
	txFromTime       string
	txToTime         string
	txFromTx         string
	txToTx           string
	txAuthors        []string
	txReverse        bool
	txLimit          int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect document history",
	Long:  `Fetch historical document revisions and the transaction log.`,
}

var historyDocumentCmd = &cobra.Command{
	Use:   "document <id>",
	Short: "Fetch a historical document revision",
	Long: `Fetch a document as it existed at a given revision or point in time.

  sanitybox history document drafts.abc --time 2024-01-15T12:00:00Z
  sanitybox history document drafts.abc --revision hgz6deq`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryDocument,
}

var historyTransactionsCmd = &cobra.Command{
	Use:   "transactions <id> [id...]",
	Short: "Fetch the transaction log for documents",
	Long: `Fetch the transaction log for one or more documents, one transaction
per line in the API response. Content is excluded unless --content is
set; the log can be large.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistoryTransactions,
}

func init() {
	addAPIFlags(historyDocumentCmd)
	historyDocumentCmd.Flags().StringVar(&revisionID, "revision", "", "Revision ID to fetch")
	historyDocumentCmd.Flags().StringVar(&revisionTime, "time", "", "Point in time to fetch (RFC 3339)")

	addAPIFlags(historyTransactionsCmd)
	historyTransactionsCmd.Flags().BoolVar(&txIncludeContent, "content", false, "Include full document content per transaction")
	historyTransactionsCmd.Flags().StringVar(&txFromTime, "from-time", "", "Only transactions after this time (RFC 3339)")
	historyTransactionsCmd.Flags().StringVar(&txToTime, "to-time", "", "Only transactions before this time (RFC 3339)")
	historyTransactionsCmd.Flags().StringVar(&txFromTx, "from-transaction", "", "Only transactions after this transaction ID")
	historyTransactionsCmd.Flags().StringVar(&txToTx, "to-transaction", "", "Only transactions before this transaction ID")
	historyTransactionsCmd.Flags().StringSliceVar(&txAuthors, "author", nil, "Filter by author ID (repeatable)")
	historyTransactionsCmd.Flags().BoolVar(&txReverse, "reverse", false, "Newest transactions first")
	historyTransactionsCmd.Flags().IntVar(&txLimit, "limit", client.DefaultTransactionsLimit, "Maximum number of transactions")

	historyCmd.AddCommand(historyDocumentCmd)
	historyCmd.AddCommand(historyTransactionsCmd)
}

func runHistoryDocument(cmd *cobra.Command, args []string) error {
	c, _, err := newProjectClient()
	if err != nil {
		return err
	}

	result, err := c.DocumentRevision(cmd.Context(), args[0], client.RevisionOptions{
		Revision: revisionID,
		Time:     revisionTime,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

func runHistoryTransactions(cmd *cobra.Command, args []string) error {
	c, _, err := newProjectClient()
	if err != nil {
		return err
	}

	transactions, err := c.DocumentTransactions(cmd.Context(), args, client.TransactionsOptions{
		IncludeContent:  txIncludeContent,
		FromTime:        txFromTime,
		ToTime:          txToTime,
		FromTransaction: txFromTx,
		ToTransaction:   txToTx,
		Authors:         txAuthors,
		Reverse:         txReverse,
		Limit:           txLimit,
	})
	if err != nil {
		return err
	}

	for _, transaction := range transactions {
		if err := printJSON(transaction); err != nil {
			return err
		}
	}
	return nil
}
