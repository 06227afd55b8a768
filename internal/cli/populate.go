package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/locallibrary/catalog/internal/config"
	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/database/authors"
	"github.com/locallibrary/catalog/internal/database/books"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/database/instances"
	"github.com/locallibrary/catalog/internal/entities"
	"github.com/locallibrary/catalog/internal/forms"
)

// PopulateCommand seeds an empty catalog with sample authors, genres,
// books and copies.
type PopulateCommand struct {
	DatabasePath string
	Force        bool
	Verbose      bool
}

func NewPopulateCommand() *PopulateCommand {
	return &PopulateCommand{}
}

func (cmd *PopulateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("populate", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Force, "force", false, "Add the sample records even if the catalog is not empty")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every record as it is created")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s populate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seed the catalog with sample authors, genres, books and copies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s populate\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s populate -db ./library.db -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *PopulateCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel("silent"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Populating catalog in %s\n", cmd.DatabasePath)

	p := &populator{
		genres:    genres.NewRepository(db.DB),
		authors:   authors.NewRepository(db.DB),
		books:     books.NewRepository(db.DB),
		instances: instances.NewRepository(db.DB),
		verbose:   cmd.Verbose,
	}
	result, err := p.run(context.Background(), cmd.Force)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Genres:  %d\n", result.Genres)
	fmt.Printf("Authors: %d\n", result.Authors)
	fmt.Printf("Books:   %d\n", result.Books)
	fmt.Printf("Copies:  %d\n", result.Instances)
	return nil
}

// PopulateResult counts the records a populate run created.
type PopulateResult struct {
	Genres    int
	Authors   int
	Books     int
	Instances int
}

type populator struct {
	genres    *genres.Repository
	authors   *authors.Repository
	books     *books.Repository
	instances *instances.Repository
	verbose   bool
	result    PopulateResult
}

type sampleBook struct {
	title, summary, isbn string
	author               int
	genres               []int
}

type sampleInstance struct {
	book    int
	imprint string
	status  entities.InstanceStatus
	dueBack string
}

var sampleGenres = []string{"Fantasy", "Science Fiction", "French Poetry"}

var sampleAuthors = []forms.AuthorForm{
	{FirstName: "Patrick", FamilyName: "Rothfuss", DateOfBirth: "1973-06-06"},
	{FirstName: "Ben", FamilyName: "Bova", DateOfBirth: "1932-11-08"},
	{FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: "1920-01-02", DateOfDeath: "1992-04-06"},
	{FirstName: "Bob", FamilyName: "Billings"},
	{FirstName: "Jim", FamilyName: "Jones", DateOfBirth: "1971-12-16"},
}

var sampleBooks = []sampleBook{
	{
		title:   "The Name of the Wind (The Kingkiller Chronicle, #1)",
		summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon. I have spent the night with Felurian and left with both my sanity and my life.",
		isbn:    "9781473211896",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
		summary: "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile, into political intrigue, courtship, adventure, love and magic.",
		isbn:    "9788401352836",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "The Slow Regard of Silent Things (Kingkiller Chronicle)",
		summary: "Deep below the University, there is a dark place. Few people know of it: a broken web of ancient passageways and abandoned rooms.",
		isbn:    "9780756411336",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "Apes and Angels",
		summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity. Humans went to the stars in a desperate crusade to save intelligent life wherever they found it.",
		isbn:    "9780765379528",
		author:  1,
		genres:  []int{1},
	},
	{
		title:   "Death Wave",
		summary: "In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
		isbn:    "9780765379504",
		author:  1,
		genres:  []int{1},
	},
	{
		title:   "Test Book 1",
		summary: "Summary of test book 1",
		isbn:    "ISBN111111",
		author:  4,
		genres:  []int{0, 1},
	},
	{
		title:   "Test Book 2",
		summary: "Summary of test book 2",
		isbn:    "ISBN222222",
		author:  4,
	},
}

var sampleInstances = []sampleInstance{
	{book: 0, imprint: "London Gollancz, 2014.", status: entities.InstanceStatusAvailable},
	{book: 1, imprint: "Gollancz, 2011.", status: entities.InstanceStatusLoaned, dueBack: "2030-06-01"},
	{book: 2, imprint: "Gollancz, 2015."},
	{book: 3, imprint: "New York Tom Doherty Associates, 2016.", status: entities.InstanceStatusAvailable},
	{book: 3, imprint: "New York Tom Doherty Associates, 2016.", status: entities.InstanceStatusAvailable},
	{book: 3, imprint: "New York Tom Doherty Associates, 2016.", status: entities.InstanceStatusAvailable},
	{book: 4, imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: entities.InstanceStatusAvailable},
	{book: 4, imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: entities.InstanceStatusMaintenance},
	{book: 4, imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: entities.InstanceStatusLoaned, dueBack: "2030-07-15"},
	{book: 0, imprint: "Imprint XXX2"},
	{book: 1, imprint: "Imprint XXX3"},
}

// run creates the sample records through the same forms the web
// handlers use, so stored values are sanitized identically.
func (p *populator) run(ctx context.Context, force bool) (PopulateResult, error) {
	if !force {
		count, err := p.genres.Count(ctx)
		if err != nil {
			return p.result, fmt.Errorf("failed to inspect catalog: %w", err)
		}
		if count > 0 {
			return p.result, fmt.Errorf("catalog already has %d genres; use -force to add the sample records anyway", count)
		}
	}

	genreIDs := make([]string, 0, len(sampleGenres))
	for _, name := range sampleGenres {
		form := forms.GenreForm{Name: name}
		form.Sanitize()
		if err := checkForm("genre "+name, form.Validate()); err != nil {
			return p.result, err
		}
		genre := form.Genre()
		if err := p.genres.Create(ctx, &genre); err != nil {
			return p.result, fmt.Errorf("failed to create genre %q: %w", name, err)
		}
		genreIDs = append(genreIDs, genre.ID)
		p.result.Genres++
		p.logf("Added genre: %s", name)
	}

	authorIDs := make([]string, 0, len(sampleAuthors))
	for _, form := range sampleAuthors {
		form.Sanitize()
		if err := checkForm("author "+form.FamilyName, form.Validate()); err != nil {
			return p.result, err
		}
		author := form.Author()
		if err := p.authors.Create(ctx, &author); err != nil {
			return p.result, fmt.Errorf("failed to create author %q: %w", author.Name(), err)
		}
		authorIDs = append(authorIDs, author.ID)
		p.result.Authors++
		p.logf("Added author: %s", author.Name())
	}

	bookIDs := make([]string, 0, len(sampleBooks))
	for _, sample := range sampleBooks {
		form := forms.BookForm{
			Title:   sample.title,
			Author:  authorIDs[sample.author],
			Summary: sample.summary,
			ISBN:    sample.isbn,
		}
		for _, g := range sample.genres {
			form.Genres = append(form.Genres, genreIDs[g])
		}
		form.Sanitize()
		if err := checkForm("book "+sample.title, form.Validate()); err != nil {
			return p.result, err
		}
		book := form.Book()
		if err := p.books.Create(ctx, &book); err != nil {
			return p.result, fmt.Errorf("failed to create book %q: %w", sample.title, err)
		}
		bookIDs = append(bookIDs, book.ID)
		p.result.Books++
		p.logf("Added book: %s", sample.title)
	}

	for _, sample := range sampleInstances {
		form := forms.BookInstanceForm{
			Book:    bookIDs[sample.book],
			Imprint: sample.imprint,
			Status:  string(sample.status),
			DueBack: sample.dueBack,
		}
		form.Sanitize()
		if err := checkForm("copy "+sample.imprint, form.Validate()); err != nil {
			return p.result, err
		}
		instance := form.Instance()
		if err := p.instances.Create(ctx, &instance); err != nil {
			return p.result, fmt.Errorf("failed to create copy %q: %w", sample.imprint, err)
		}
		p.result.Instances++
		p.logf("Added copy: %s (%s)", sample.imprint, instance.Status)
	}

	return p.result, nil
}

func (p *populator) logf(format string, args ...any) {
	if p.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

func checkForm(what string, errs forms.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid sample %s: %s", what, strings.Join(errs.Messages(), "; "))
}
