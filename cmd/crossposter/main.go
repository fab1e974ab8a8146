package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"CrossPoster/internal/app"
	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/logging"
	"CrossPoster/internal/usecase"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, domain.ErrDuplicateContent) {
			fmt.Fprintln(os.Stderr, "The destination platform rejected the post as duplicate content.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApplication() *app.Application {
	cfg := config.Load()
	return app.New(cfg, logging.New(cfg.Logging.Level))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crossposter",
		Short:         "Repurpose the latest LinkedIn post into an X post",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFetchCmd(),
		newEnrichCmd(),
		newTweetifyCmd(),
		newPostCmd(),
		newRunCmd(),
		newCheckTokenCmd(),
	)
	return root
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest post from the source change log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stage, err := newApplication().Stage("fetch", false)
			if err != nil {
				return err
			}

			doc, outcome, err := stage.Run(cmd.Context(), domain.Document{})
			if err != nil {
				return err
			}
			if outcome == usecase.Skip {
				cmd.Println("No new post found in the lookback window.")
				return nil
			}

			cmd.Printf("Fetched %s (%d images)\n", doc.URL, len(doc.Images))
			return nil
		},
	}
}

func newEnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Add SEO fields and image alt text to the fetched post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()

			input, err := application.Snapshots().Load(usecase.FetchSnapshot)
			if err != nil {
				return fmt.Errorf("%w: missing %s, run fetch first", domain.ErrConfiguration, usecase.FetchSnapshot)
			}

			stage, err := application.Stage("enrich", false)
			if err != nil {
				return err
			}

			out, _, err := stage.Run(cmd.Context(), input)
			if err != nil {
				return err
			}

			cmd.Printf("Enriched: headline=%q description=%q\n", out.Headline, out.Description)
			return nil
		},
	}
}

func newTweetifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "tweetify",
		Short: "Rewrite the post into a bounded tweet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()

			// Prefer the enriched snapshot so image alt text survives.
			input, err := application.Snapshots().Load(usecase.EnrichSnapshot)
			if err != nil {
				input, err = application.Snapshots().Load(usecase.FetchSnapshot)
				if err != nil {
					return fmt.Errorf("%w: missing %s and %s, run fetch first",
						domain.ErrConfiguration, usecase.EnrichSnapshot, usecase.FetchSnapshot)
				}
			}

			stage, err := application.Stage("tweetify", force)
			if err != nil {
				return err
			}

			out, outcome, err := stage.Run(cmd.Context(), input)
			if err != nil {
				return err
			}
			if outcome == usecase.Skip {
				cmd.Println("Post already repurposed; nothing new to publish.")
				return nil
			}

			cmd.Printf("Tweet preview: %s\n", out.Content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "rebuild the tweet even when the source post was already repurposed")
	return cmd
}

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Publish the prepared tweet to X",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()

			input, err := application.Snapshots().Load(usecase.TweetSnapshot)
			if err != nil {
				return fmt.Errorf("%w: missing %s, run tweetify first", domain.ErrConfiguration, usecase.TweetSnapshot)
			}

			stage, err := application.Stage("post", false)
			if err != nil {
				return err
			}

			if _, _, err := stage.Run(cmd.Context(), input); err != nil {
				return err
			}

			cmd.Println("Post published.")
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full fetch, enrich, tweetify, post pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := newApplication().Runner(force)
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "publish even when the source post was already repurposed")
	return cmd
}

func newCheckTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-token",
		Short: "Probe the change-log API with the configured access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := newApplication().CheckToken(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Token is valid.")
			return nil
		},
	}
}
