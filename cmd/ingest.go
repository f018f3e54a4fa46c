package cmd

import (
	"context"
	"fmt"

	"bulk-ingest/core/config"
	"bulk-ingest/core/database"
	"bulk-ingest/core/entryservice"
	"bulk-ingest/core/logger"
	"bulk-ingest/feature/bulkupload/engine"
	"bulk-ingest/feature/bulkupload/jobs"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestFlags struct {
	partner           int
	maxRecords        int
	startIndex        int
	conversionProfile int
	sandbox           bool
}

// ingestCmd runs a feed to completion in the foreground
var ingestCmd = &cobra.Command{
	Use:   "ingest [source]",
	Short: "Ingest a feed document",
	Long: `Ingests a feed document, given as a local path or s3://bucket/key. The engine is
invoked repeatedly from the resume offset until the feed is exhausted, and every
invocation is recorded in the job ledger.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args[0])
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestFlags.partner, "partner", 0, "partner id to impersonate (default remote.partner_id)")
	ingestCmd.Flags().IntVar(&ingestFlags.maxRecords, "max-records", 0, "results per invocation (default ingest.max_records_per_run)")
	ingestCmd.Flags().IntVar(&ingestFlags.startIndex, "start-index", 0, "0-based item index to resume from")
	ingestCmd.Flags().IntVar(&ingestFlags.conversionProfile, "conversion-profile", 0, "run-level ingestion profile id")
	ingestCmd.Flags().BoolVar(&ingestFlags.sandbox, "sandbox", false, "use an in-memory entry service")
	RootCmd.AddCommand(ingestCmd)
}

// loggingHook logs every entry created or updated by the engine.
type loggingHook struct {
	logger *zap.Logger
}

func (h loggingHook) OnAdded(_ context.Context, _ entryservice.Client, entry *entryservice.Entry, item *models.Item) error {
	h.logger.Info("Entry added", zap.String("entry_id", entry.ID), zap.String("name", item.Name))
	return nil
}

func (h loggingHook) OnUpdated(_ context.Context, _ entryservice.Client, entry *entryservice.Entry, item *models.Item) error {
	h.logger.Info("Entry updated", zap.String("entry_id", entry.ID), zap.String("name", item.Name))
	return nil
}

func runIngest(cmd *cobra.Command, location string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logg.Sync()

	s, err := loadSchema(cfg)
	if err != nil {
		return err
	}
	client, err := remoteClient(cfg, logg, ingestFlags.sandbox)
	if err != nil {
		return err
	}
	src, err := newSource(cfg, location)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	repo := jobs.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return err
	}

	job := &models.Job{
		PartnerID:          cfg.Remote.PartnerID,
		Source:             location,
		StartIndex:         ingestFlags.startIndex,
		MaxRecordsPerRun:   cfg.Ingest.MaxRecordsPerRun,
		IngestionProfileID: defaultIngestionProfile(cfg),
	}
	if ingestFlags.partner > 0 {
		job.PartnerID = ingestFlags.partner
	}
	if ingestFlags.maxRecords > 0 {
		job.MaxRecordsPerRun = ingestFlags.maxRecords
	}
	if ingestFlags.conversionProfile > 0 {
		id := ingestFlags.conversionProfile
		job.IngestionProfileID = &id
	}
	if err := repo.CreateJob(ctx, job); err != nil {
		return err
	}

	eng := engine.New(client, s, engine.WithLogger(logg), engine.WithHooks(loggingHook{logger: logg}))
	runner := jobs.NewRunner(eng, repo, src, logg, cfg.Ingest.MaxInvocations)

	reports, runErr := runner.Drain(ctx, job)

	out := cmd.OutOrStdout()
	for _, report := range reports {
		for _, r := range report.Results {
			if r.Failed() {
				fmt.Fprintf(out, "line %d\t%s\t%s\t%s\n", r.LineIndex, r.Action, r.Status, r.ErrorDescription)
				continue
			}
			fmt.Fprintf(out, "line %d\t%s\t%s\t%s\n", r.LineIndex, r.Action, r.Status, r.EntryID)
		}
	}
	fmt.Fprintf(out, "job %s: %s after %d invocations, %d processed, %d failed\n",
		job.ID, job.Status, job.Invocations, job.Processed, job.Failed)
	return runErr
}
