package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/genrejinn/genrejinn/internal/app"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/pages"
	"github.com/genrejinn/genrejinn/internal/parser"
	"github.com/genrejinn/genrejinn/internal/store"
	filestore "github.com/genrejinn/genrejinn/internal/store/file"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "genrejinn",
		Short: "Annotation engine for paginated books",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(parseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotation API (configured via GENREJINN_* env vars)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New().Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Load the annotation store and rewrite it in the current schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("info", true)
			backend, err := filestore.New(dataDir, log)
			if err != nil {
				return err
			}

			st := store.New(backend, log)
			ctx := context.Background()
			st.Load(ctx)
			st.Save(ctx)

			total := 0
			for _, list := range st.Highlights() {
				total += len(list)
			}
			fmt.Printf("Rewrote %d highlights on %d pages and %d marks\n",
				total, len(st.Highlights()), len(st.Marks()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "annotation data directory")
	return cmd
}

func parseCmd() *cobra.Command {
	var bookFile string

	cmd := &cobra.Command{
		Use:   "parse [page]",
		Short: "Print the bracket spans found on one page of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageNum, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid page number %q", args[0])
			}

			book, err := pages.NewLoader(bookFile).Load()
			if err != nil {
				return err
			}
			text, ok := book.Page(pageNum)
			if !ok {
				return fmt.Errorf("page %d out of range (book has %d pages)", pageNum, book.Len())
			}

			spans := parser.Parse(text)
			if len(spans) == 0 {
				fmt.Println("no spans")
				return nil
			}
			for _, s := range spans {
				fmt.Printf("%d:%d-%d:%d  %-6s  %q\n",
					s.Start.Row, s.Start.Col, s.End.Row, s.End.Col, s.Color, s.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bookFile, "book", "book.yaml", "paginated book file")
	return cmd
}
