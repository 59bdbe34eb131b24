package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/TransactionTracker/internal/client"
	"github.com/sebuszqo/TransactionTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/TransactionTracker/internal/finance/errors"
	"github.com/sebuszqo/TransactionTracker/internal/logger"
	"github.com/sebuszqo/TransactionTracker/internal/presentation"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), "console")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("TRACKER_API_URL")
	app := presentation.NewApp(client.NewClient(baseURL), log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, app, os.Args[2:])
	case "add":
		err = runAdd(ctx, app, os.Args[2:])
	case "edit":
		err = runEdit(ctx, app, os.Args[2:])
	case "delete":
		err = runDelete(ctx, app, os.Args[2:])
	case "views":
		err = runViews(ctx, app)
	case "save-view":
		err = runSaveView(ctx, app, os.Args[2:])
	case "apply-view":
		err = runApplyView(ctx, app, os.Args[2:])
	case "delete-view":
		err = runDeleteView(ctx, app, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		reportError(log, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Transaction Tracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  txnctl <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list         List transactions, optionally filtered")
	fmt.Println("  add          Add a transaction")
	fmt.Println("  edit         Edit a transaction by id")
	fmt.Println("  delete       Delete a transaction by id")
	fmt.Println("  views        List saved views")
	fmt.Println("  save-view    Save the given filters as a named view")
	fmt.Println("  apply-view   List transactions using a saved view")
	fmt.Println("  delete-view  Delete a saved view by id")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nThe API address is read from TRACKER_API_URL (default " + client.DefaultBaseURL + ").")
	fmt.Println("Run 'txnctl <command> -h' for more information on a command.")
}

func reportError(log zerolog.Logger, err error) {
	if msgs := financeErrors.ValidationMessages(err); len(msgs) > 0 {
		for _, msg := range msgs {
			fmt.Fprintln(os.Stderr, "invalid input:", msg)
		}
		return
	}
	log.Error().Err(err).Msg("Command failed")
}

func filterFlags(fs *flag.FlagSet) *presentation.FilterForm {
	form := &presentation.FilterForm{}
	fs.StringVar(&form.FromDate, "from", "", "first transaction date, YYYY-MM-DD")
	fs.StringVar(&form.ToDate, "to", "", "last transaction date, YYYY-MM-DD")
	fs.StringVar(&form.Account, "account", "", "exact account, e.g. "+strings.Join(presentation.AccountOptions[:3], ", "))
	fs.StringVar(&form.TxnType, "type", "", "exact type: Credit, Debit or Others")
	fs.StringVar(&form.TxnAmount, "amount", "", "exact amount")
	fs.StringVar(&form.Category, "category", "", "exact category, e.g. "+strings.Join(presentation.CategoryOptions[:3], ", "))
	fs.StringVar(&form.Tags, "tags", "", "substring of tags, case-insensitive")
	fs.StringVar(&form.Notes, "notes", "", "substring of notes, case-insensitive")
	return form
}

func transactionFlags(fs *flag.FlagSet, form *presentation.TransactionForm) {
	fs.StringVar(&form.TxnDate, "date", form.TxnDate, "transaction date, YYYY-MM-DD")
	fs.StringVar(&form.Account, "account", form.Account, "account")
	fs.StringVar(&form.TxnType, "type", form.TxnType, "Credit, Debit or Others")
	fs.StringVar(&form.TxnAmount, "amount", form.TxnAmount, "amount")
	fs.StringVar(&form.Category, "category", form.Category, "category")
	fs.StringVar(&form.Tags, "tags", form.Tags, "comma separated tags")
	fs.StringVar(&form.Notes, "notes", form.Notes, "free text notes")
}

func runList(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	form := filterFlags(fs)
	fs.Parse(args)

	if err := app.ApplyFilters(ctx, *form); err != nil {
		return err
	}
	printTransactions(os.Stdout, app.State().Transactions)
	return nil
}

func runAdd(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	form := presentation.NewTransactionForm(time.Now())
	transactionFlags(fs, &form)
	fs.Parse(args)

	if err := app.AddTransaction(ctx, form); err != nil {
		return err
	}
	printNotices(app.State().Notices)
	printTransactions(os.Stdout, app.State().Transactions)
	return nil
}

func runEdit(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	var changes presentation.TransactionForm
	transactionFlags(fs, &changes)
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("edit: -id is required")
	}

	if err := app.Load(ctx); err != nil {
		return err
	}
	var form presentation.TransactionForm
	found := false
	for _, transaction := range app.State().Transactions {
		if transaction.ID == *id {
			form = presentation.FormFromTransaction(transaction)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("edit: transaction %d not found", *id)
	}

	// only the flags given on the command line replace stored values
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "date":
			form.TxnDate = changes.TxnDate
		case "account":
			form.Account = changes.Account
		case "type":
			form.TxnType = changes.TxnType
		case "amount":
			form.TxnAmount = changes.TxnAmount
		case "category":
			form.Category = changes.Category
		case "tags":
			form.Tags = changes.Tags
		case "notes":
			form.Notes = changes.Notes
		}
	})

	if err := app.UpdateTransaction(ctx, *id, form); err != nil {
		return err
	}
	printNotices(app.State().Notices)
	return nil
}

func runDelete(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("delete: -id is required")
	}

	if err := app.DeleteTransaction(ctx, *id); err != nil {
		return err
	}
	printNotices(app.State().Notices)
	return nil
}

func runViews(ctx context.Context, app *presentation.App) error {
	if err := app.Load(ctx); err != nil {
		return err
	}
	printViews(os.Stdout, app.State().Views)
	return nil
}

func runSaveView(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("save-view", flag.ExitOnError)
	name := fs.String("name", "", "view name; an existing view with this name is overwritten")
	form := filterFlags(fs)
	fs.Parse(args)

	if !form.HasValues() {
		return fmt.Errorf("save-view: set at least one filter")
	}
	if err := app.ApplyFilters(ctx, *form); err != nil {
		return err
	}
	view, err := app.SaveView(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("Saved view %q (id %d)\n", view.ViewName, view.ID)
	return nil
}

func runApplyView(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("apply-view", flag.ExitOnError)
	id := fs.Int64("id", 0, "view id")
	fs.Parse(args)

	if err := app.Load(ctx); err != nil {
		return err
	}
	if err := app.SelectView(ctx, *id); err != nil {
		return err
	}
	printTransactions(os.Stdout, app.State().Transactions)
	return nil
}

func runDeleteView(ctx context.Context, app *presentation.App, args []string) error {
	fs := flag.NewFlagSet("delete-view", flag.ExitOnError)
	id := fs.Int64("id", 0, "view id")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("delete-view: -id is required")
	}

	if err := app.DeleteView(ctx, *id); err != nil {
		return err
	}
	fmt.Println("View deleted successfully")
	return nil
}

func printNotices(notices []presentation.Notice) {
	for _, notice := range notices {
		fmt.Printf("[%s] %s\n", notice.Level, notice.Message)
	}
}

func printTransactions(out io.Writer, transactions []domain.Transaction) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(presentation.GridHeader.Cells(), "\t"))
	for _, row := range presentation.Rows(transactions) {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	tw.Flush()
}

func printViews(out io.Writer, views []domain.View) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFILTERS")
	for _, view := range views {
		query := presentation.FormFromView(view).Query()
		fmt.Fprintf(tw, "%d\t%s\t%s\n", view.ID, view.ViewName, query.Encode())
	}
	tw.Flush()
}
