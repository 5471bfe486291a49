package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/lending"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/notify"
	"github.com/erazemk/knjiznica/internal/store"
)

const usage = "Usage: knjiznica <init|add-user|add-item|borrow|return|pay|loans|overdue|remind>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = cmdInit(args)
	case "add-user":
		err = cmdAddUser(args)
	case "add-item":
		err = cmdAddItem(args)
	case "borrow":
		err = cmdBorrow(args)
	case "return":
		err = cmdReturn(args)
	case "pay":
		err = cmdPay(args)
	case "loans":
		err = cmdLoans(args)
	case "overdue":
		err = cmdOverdue(args)
	case "remind":
		err = cmdRemind(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dbFlag registers the shared database path flag on a subcommand flag set.
func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", "knjiznica.sqlite3", "path to SQLite database file")
}

// openDB opens the database and applies pending migrations.
func openDB(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// newEngine wires the lending engine over the SQLite repositories.
func newEngine(database *sql.DB) *lending.Engine {
	return lending.NewEngine(
		store.NewUsers(database),
		store.NewItems(database),
		store.NewLoans(database),
		clock.System{},
		lending.DefaultRules(),
	)
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := dbFlag(fs)
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		return fmt.Errorf("database file %s already exists", *dbPath)
	}

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Printf("Database created: %s\n", *dbPath)
	return nil
}

func cmdAddUser(args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	dbPath := dbFlag(fs)
	username := fs.String("username", "", "username (required)")
	email := fs.String("email", "", "email address for overdue reminders")
	admin := fs.Bool("admin", false, "grant admin rights")
	fs.Parse(args)

	if *username == "" {
		return fmt.Errorf("missing -username")
	}

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	user := model.NewUser(*username, *email, *admin)
	if err := store.NewUsers(database).Add(context.Background(), user); err != nil {
		return err
	}

	fmt.Printf("User created: %s\n", user.Username)
	return nil
}

func cmdAddItem(args []string) error {
	fs := flag.NewFlagSet("add-item", flag.ExitOnError)
	dbPath := dbFlag(fs)
	title := fs.String("title", "", "item title (required)")
	author := fs.String("author", "", "author or artist")
	isbn := fs.String("isbn", "", "ISBN or catalogue code")
	media := fs.String("media", "book", "media type: book or cd")
	fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("missing -title")
	}
	mediaType := model.MediaType(*media)
	if mediaType != model.MediaBook && mediaType != model.MediaCD {
		return fmt.Errorf("unknown media type %q", *media)
	}

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	items := store.NewItems(database)
	id, err := items.NextID(ctx)
	if err != nil {
		return err
	}

	item := &model.Item{ID: id, Title: *title, Author: *author, ISBN: *isbn, Media: mediaType}
	if err := items.Add(ctx, item); err != nil {
		return err
	}

	fmt.Printf("Item %d created: %s\n", item.ID, item.Title)
	return nil
}

func cmdBorrow(args []string) error {
	fs := flag.NewFlagSet("borrow", flag.ExitOnError)
	dbPath := dbFlag(fs)
	username := fs.String("username", "", "borrower username (required)")
	itemID := fs.Int64("item", 0, "item ID (required)")
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	loan, err := newEngine(database).Borrow(context.Background(), *username, *itemID)
	if err != nil {
		return err
	}

	fmt.Printf("Borrowed. Loan %s, due date: %s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
	return nil
}

func cmdReturn(args []string) error {
	fs := flag.NewFlagSet("return", flag.ExitOnError)
	dbPath := dbFlag(fs)
	loanID := fs.String("loan", "", "loan ID (required)")
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	loan, err := newEngine(database).Return(context.Background(), *loanID)
	if err != nil {
		return err
	}

	fmt.Printf("Returned. Applied fine: %d\n", loan.FineApplied)
	return nil
}

func cmdPay(args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	dbPath := dbFlag(fs)
	username := fs.String("username", "", "username (required)")
	amount := fs.Int("amount", 0, "amount to pay (required)")
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	payment, err := newEngine(database).PayFine(context.Background(), *username, *amount)
	if err != nil {
		return err
	}

	fmt.Printf("Paid %d. Balance before: %d, now: %d\n",
		payment.Amount, payment.BalanceBefore, payment.BalanceAfter)
	return nil
}

func cmdLoans(args []string) error {
	fs := flag.NewFlagSet("loans", flag.ExitOnError)
	dbPath := dbFlag(fs)
	username := fs.String("username", "", "limit to one user's loans")
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	loans := store.NewLoans(database)

	var records []model.Loan
	if *username != "" {
		user, err := store.NewUsers(database).ByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if user == nil {
			return lending.ErrUserNotFound
		}
		records, err = loans.ByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
	} else {
		records, err = loans.List(ctx)
		if err != nil {
			return err
		}
	}

	printLoans(records)
	return nil
}

func cmdOverdue(args []string) error {
	fs := flag.NewFlagSet("overdue", flag.ExitOnError)
	dbPath := dbFlag(fs)
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := newEngine(database).OverdueLoans(context.Background())
	if err != nil {
		return err
	}

	printLoans(records)
	return nil
}

func cmdRemind(args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	dbPath := dbFlag(fs)
	fs.Parse(args)

	database, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	reminder := lending.NewReminder(
		store.NewLoans(database),
		store.NewUsers(database),
		clock.System{},
		log,
	)
	reminder.AddObserver(&notify.Logger{Log: log})

	return reminder.SendOverdueNotifications(context.Background())
}

func printLoans(records []model.Loan) {
	if len(records) == 0 {
		fmt.Println("No loans.")
		return
	}
	for _, l := range records {
		status := "active"
		if l.Returned() {
			status = "returned " + l.ReturnedDate.Format("2006-01-02")
		}
		fmt.Printf("%s  item %d  user %s  due %s  %s  fine %d\n",
			l.ID, l.ItemID, l.UserID, l.DueDate.Format("2006-01-02"), status, l.FineApplied)
	}
}
