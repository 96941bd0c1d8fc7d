package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Apurer/breedmatch-api/internal/app/api"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/bundled"
	breedsmemory "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/memory"
	breedspostgres "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/persistence/postgres"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/policyfile"
	breedsapp "github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/catalog"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/search"
	platformpostgres "github.com/Apurer/breedmatch-api/internal/platform/postgres"
)

func loadBreeds(path string) ([]domain.Breed, error) {
	if path == "" {
		return bundled.Breeds()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return bundled.Decode(f)
}

// localService builds an in-memory service over the selected catalog.
func (o *rootOptions) localService(ctx context.Context) (*breedsapp.Service, error) {
	policies, err := policyfile.Load(o.policyFile)
	if err != nil {
		return nil, err
	}
	breeds, err := loadBreeds(o.catalogFile)
	if err != nil {
		return nil, err
	}
	svc := breedsapp.NewService(
		breedsmemory.NewCatalogRepository(breeds...),
		breedsmemory.NewSessionStore(),
		breedsapp.WithMatcher(policies.Matcher()),
		breedsapp.WithFilterPolicy(policies.Filter),
	)
	if _, err := svc.ReloadCatalog(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func scoreCmd(opts *rootOptions) *cobra.Command {
	var prefArgs []string
	cmd := &cobra.Command{
		Use:   "score <breed name>",
		Short: "Print the match percentage of one breed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := domain.ParsePreferenceArgs(prefArgs)
			if err != nil {
				return err
			}
			svc, err := opts.localService(cmd.Context())
			if err != nil {
				return err
			}
			match, err := svc.MatchBreed(cmd.Context(), types.MatchBreedInput{Name: args[0], Preferences: prefs})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f%%\n", match.Breed.Name, match.Percentage)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&prefArgs, "pref", nil, `preference as "Trait Name=value" (repeatable)`)
	return cmd
}

func rankCmd(opts *rootOptions) *cobra.Command {
	var (
		prefArgs []string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the catalog against preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := domain.ParsePreferenceArgs(prefArgs)
			if err != nil {
				return err
			}
			svc, err := opts.localService(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := svc.RankBreeds(cmd.Context(), types.RankBreedsInput{Preferences: prefs, Limit: limit})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tBREED\tGROUP\tMATCH")
			for i, m := range matches {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.1f%%\n", i+1, m.Breed.Name, m.Breed.BreedGroup, m.Percentage)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&prefArgs, "pref", nil, `preference as "Trait Name=value" (repeatable)`)
	cmd.Flags().IntVar(&limit, "limit", 10, "number of breeds to print (0 prints all)")
	return cmd
}

func searchCmd(opts *rootOptions) *cobra.Command {
	var (
		prefArgs []string
		pages    int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Filter the catalog by name and preferences, page by page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := domain.ParsePreferenceArgs(prefArgs)
			if err != nil {
				return err
			}
			if pages <= 0 || pageSize <= 0 {
				return errors.New("--pages and --page-size must be positive")
			}
			svc, err := opts.localService(cmd.Context())
			if err != nil {
				return err
			}
			var text string
			if len(args) == 1 {
				text = args[0]
			}
			pipeline := search.NewPipeline(svc.Index(),
				search.WithPageSize(pageSize),
				search.WithInitialCriteria(catalog.Criteria{SearchText: text, Preferences: prefs}),
			)
			defer pipeline.Close()
			for i := 1; i < pages; i++ {
				if !pipeline.LoadMoreBreeds() {
					break
				}
				pipeline.Flush()
			}
			printState(cmd.OutOrStdout(), pipeline.State())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&prefArgs, "pref", nil, `preference as "Trait Name=value" (repeatable)`)
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to reveal")
	cmd.Flags().IntVar(&pageSize, "page-size", catalog.DefaultPageSize, "breeds per page")
	return cmd
}

func printState(out io.Writer, state search.PipelineState) {
	for _, b := range state.Breeds {
		fmt.Fprintf(out, "%s\t%s\n", b.Name, b.BreedGroup)
	}
	more := ""
	if state.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(out, "-- showing %d of %d (page %d%s)\n", len(state.Breeds), state.TotalMatches, state.Page, more)
}

func catalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate or import catalog files",
	}
	cmd.AddCommand(catalogValidateCmd(), catalogImportCmd(opts))
	return cmd
}

func catalogValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			breeds, err := loadBreeds(file)
			if err != nil {
				return err
			}
			if err := breedsapp.ValidateCatalog(breeds); err != nil {
				return err
			}
			c := catalog.New(breeds)
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d breeds, %d hybrids excluded, version %s\n",
				c.Len(), c.ExcludedHybrids(), c.Version())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func catalogImportCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the catalog stored in Postgres (POSTGRES_DSN)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := api.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.PostgresDSN == "" {
				return errors.New("POSTGRES_DSN is required to import a catalog")
			}
			breeds, err := loadBreeds(file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN,
				platformpostgres.WithLogger(opts.logger(cmd)),
				platformpostgres.WithMigrations(),
				platformpostgres.WithMaxOpenConns(2),
			)
			if err != nil {
				return err
			}
			defer platformpostgres.Close(db)
			svc := breedsapp.NewService(breedspostgres.NewRepository(db), breedsmemory.NewSessionStore())
			result, err := svc.ImportCatalog(ctx, types.CatalogImportInput{Breeds: breeds, Source: "breedctl:" + file})
			if err != nil {
				return err
			}
			opts.logger(cmd).Info("catalog imported", "version", result.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d breeds (%d hybrids excluded), version %s\n",
				result.Breeds, result.ExcludedHybrids, result.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
