package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gradeworks/canvasmoss/internal/config"
	"github.com/gradeworks/canvasmoss/internal/reportstore"
	"github.com/gradeworks/canvasmoss/moss"
	"github.com/gradeworks/canvasmoss/pkg/logger"
	"github.com/gradeworks/canvasmoss/submission"
)

type submitOptions struct {
	noReport       bool
	originalName   bool
	verbose        bool
	maxSubmissions int
	repeat         int
	zipOutput      string
	reportOutput   string
	baseFiles      string
	solutions      string
	userID         string
}

// NewSubmitCmd creates and returns the submit subcommand for the canvasmoss
// CLI. It runs the full pipeline: extract the bulk export, stage files per
// batch, send each batch to MOSS, and save the resulting reports.
func NewSubmitCmd() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit ZIP LANGUAGE",
		Short: "Extract a Canvas export and submit it to MOSS",
		Long: `Extract a Canvas bulk submission export and submit the source files to MOSS.

Each per-student archive is unpacked into its own folder, cleaned of OS
metadata, and flattened if the student zipped a single wrapper directory.
Files matching the language's extensions are uploaded, and the hosted report
is saved as report{n}.html with a full local mirror under report{n}/.

With --max-submissions, each batch uploads a random sample of submission
folders; --repeat sends several such batches, numbering the reports.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runSubmit(args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "Do not mirror the hosted report locally")
	cmd.Flags().BoolVar(&opts.originalName, "original-name", false, "Keep the submission's original archive name when unzipping (unreliable with resubmissions)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Log everything")
	cmd.Flags().IntVarP(&opts.maxSubmissions, "max-submissions", "n", 0, "Maximum number of submissions per batch (0 = all)")
	cmd.Flags().IntVarP(&opts.repeat, "repeat", "r", 1, "Number of repeated batch submissions")
	cmd.Flags().StringVarP(&opts.zipOutput, "zip-output", "o", "./zip_output", "Path to extract the bulk export into")
	cmd.Flags().StringVar(&opts.reportOutput, "report-output", "./report", "Path to save MOSS report(s)")
	cmd.Flags().StringVarP(&opts.baseFiles, "base-files", "b", "", "Path to instructor base files (starter code), excluded from matches")
	cmd.Flags().StringVarP(&opts.solutions, "solutions", "s", "", "Path to online solutions sent alongside submissions; bypasses sampling")
	cmd.Flags().StringVarP(&opts.userID, "user-id", "u", "", "MOSS user id (overrides config and environment)")

	return cmd
}

func runSubmit(zipFile, language string, opts submitOptions) {
	log := logger.New("info", true, false)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.New(logLevel(cfg.Logging.Level, opts.verbose), cfg.Logging.Pretty, cfg.Logging.NoColor)

	userID := opts.userID
	if userID == "" {
		userID = cfg.Moss.UserID
	}
	if userID == "" {
		log.Fatal().Err(moss.ErrNoUserID).Msg("Set moss.user_id in config or the MOSS_USER_ID environment variable")
	}

	lang := moss.NormalizeLanguage(language)
	if !moss.IsSupported(lang) {
		log.Fatal().Str("language", language).Msg("Language not supported by MOSS; see 'canvasmoss languages'")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	folders, err := submission.UnpackBulk(zipFile, opts.zipOutput, submission.ExtractOptions{
		OriginalName: opts.originalName,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to unpack bulk export")
	}
	log.Info().
		Int("submissions", len(folders)).
		Str("dest", opts.zipOutput).
		Msg("Bulk export extracted")

	for n := 1; n <= opts.repeat; n++ {
		if err := runBatch(ctx, cfg, log, lang, userID, n, opts); err != nil {
			log.Fatal().Err(err).Int("batch", n).Msg("Batch submission failed")
		}
	}
}

func runBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, lang, userID string, n int, opts submitOptions) error {
	runID := uuid.New().String()
	blog := log.With().Int("batch", n).Str("run_id", runID).Logger()
	blog.Info().Int("of", opts.repeat).Msg("Sending batch to MOSS")

	folders, err := submission.ListSubmissionFolders(opts.zipOutput)
	if err != nil {
		return err
	}
	batch := submission.SampleFolders(folders, opts.maxSubmissions)

	client := moss.New(userID, lang, blog)
	client.Server = cfg.Moss.Server
	client.Port = cfg.Moss.Port
	client.SetDirectoryMode(true)
	client.SetUploadLimit(cfg.Moss.UploadRate)

	for _, folder := range batch {
		files, err := submission.ListFiles(folder, lang)
		if err != nil {
			return err
		}
		for _, f := range files {
			client.AddFile(f)
		}
	}

	if opts.baseFiles != "" {
		files, err := submission.ListFiles(opts.baseFiles, lang)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: %s", submission.ErrNoBaseFiles, opts.baseFiles)
		}
		for _, f := range files {
			client.AddBaseFile(f)
		}
	}
	if opts.solutions != "" {
		files, err := submission.ListFiles(opts.solutions, lang)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: %s", submission.ErrNoSolutions, opts.solutions)
		}
		for _, f := range files {
			client.AddFile(f)
		}
	}

	comment := submission.CommentInfo{
		BaseFiles:      opts.baseFiles,
		Solutions:      opts.solutions,
		MaxSubmissions: opts.maxSubmissions,
		Batch:          batch,
	}
	client.SetComment(comment.String())

	blog.Debug().Int("files", client.FileCount()).Msg("Staged files for upload")

	url, err := client.Send(ctx)
	if err != nil {
		return err
	}
	blog.Info().Str("url", url).Msg("Report URL")

	fetcher := moss.NewReportFetcher(
		cfg.Download.Connections,
		cfg.Download.RetryCount,
		cfg.Download.RetryDelay,
		cfg.Download.Timeout,
		blog,
	)

	pagePath := filepath.Join(opts.reportOutput, fmt.Sprintf("report%d.html", n))
	blog.Info().Str("path", pagePath).Msg("Saving report page")
	if err := fetcher.SavePage(ctx, url, pagePath); err != nil {
		return err
	}

	if opts.noReport {
		return nil
	}

	reportDir := filepath.Join(opts.reportOutput, fmt.Sprintf("report%d", n))
	blog.Info().Str("path", reportDir).Msg("Downloading report")
	if err := fetcher.Download(ctx, url, reportDir); err != nil {
		return err
	}

	if cfg.Archive.Enabled {
		store, err := reportstore.New(cfg.Archive, blog)
		if err != nil {
			return err
		}
		blog.Info().Str("bucket", cfg.Archive.Bucket).Msg("Archiving report bundle")
		if err := store.UploadDir(ctx, reportDir, runID); err != nil {
			return err
		}
	}
	return nil
}

// logLevel picks the effective log level; --verbose wins over config.
func logLevel(configured string, verbose bool) string {
	if verbose {
		return "debug"
	}
	if configured == "" {
		return "info"
	}
	return configured
}
