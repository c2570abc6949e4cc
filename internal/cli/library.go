package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/database"
	"github.com/mrlokans/novelshelf/internal/database/kv"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/library"
)

// LibraryCommand rebuilds the library view and prints it, or looks up the
// status of one title.
type LibraryCommand struct {
	DatabasePath    string
	Title           string
	LookupDownloads bool

	out io.Writer
}

// NewLibraryCommand creates a new LibraryCommand
func NewLibraryCommand() *LibraryCommand {
	return &LibraryCommand{out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *LibraryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("library", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Title, "title", "", "Print the library status of this title")
	fs.BoolVar(&cmd.LookupDownloads, "downloads", false, "Consider downloads when looking up a title")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s library [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rebuild the library sections and print their sizes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s library -db ./novelshelf.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s library -title \"Shadow Slave\"\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the library command
func (cmd *LibraryCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); err != nil {
		return fmt.Errorf("database not found: %w", err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(logger.Silent))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	aggregator := library.NewAggregator(kv.NewRepository(db.DB), library.Options{LookupDownloads: cmd.LookupDownloads})
	if err := aggregator.Rebuild(context.Background()); err != nil {
		return fmt.Errorf("failed to rebuild library: %w", err)
	}

	if cmd.Title != "" {
		label, ok := aggregator.LookupStatus(cmd.Title)
		if !ok {
			fmt.Fprintf(cmd.out, "%s: not in library\n", cmd.Title)
			return nil
		}
		fmt.Fprintf(cmd.out, "%s: %s\n", cmd.Title, label)
		return nil
	}

	sections := aggregator.Sections()
	for _, rt := range entities.ReadTypes {
		if rt == entities.ReadTypeNone {
			continue
		}
		fmt.Fprintf(cmd.out, "%-14s %d\n", rt.String(), len(sections[rt.String()]))
	}
	fmt.Fprintf(cmd.out, "%-14s %d\n", library.SectionDownloads, len(sections[library.SectionDownloads]))
	fmt.Fprintf(cmd.out, "%-14s %d\n", library.SectionHistory, len(sections[library.SectionHistory]))
	return nil
}
