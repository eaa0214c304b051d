// Package alembiccmder provides the root alembic command and wires up all
// subcommands.
package alembiccmder

import (
	"github.com/spf13/cobra"

	analyzecmder "github.com/hexlockco/alembic/cmd/alembic/analyze"
	askcmder "github.com/hexlockco/alembic/cmd/alembic/ask"
	configcmder "github.com/hexlockco/alembic/cmd/alembic/config"
	correlationcmder "github.com/hexlockco/alembic/cmd/alembic/correlation"
	historycmder "github.com/hexlockco/alembic/cmd/alembic/history"
	ingestcmder "github.com/hexlockco/alembic/cmd/alembic/ingest"
	patternscmder "github.com/hexlockco/alembic/cmd/alembic/patterns"
	querycmder "github.com/hexlockco/alembic/cmd/alembic/query"
	reportcmder "github.com/hexlockco/alembic/cmd/alembic/report"
	researchcmder "github.com/hexlockco/alembic/cmd/alembic/research"
	servecmder "github.com/hexlockco/alembic/cmd/alembic/serve"
	versioncmder "github.com/hexlockco/alembic/cmd/version"
)

const alembicLongDesc string = `Alembic distills company research and dataset analytics with AI.

Research and Q&A:
  alembic research <company>   Deep research report on a company or topic
  alembic ask <question>       Answer a question using ingested context
  alembic ingest <dir>         Ingest documents into the context platform

Dataset analytics:
  alembic analyze <file>       Statistical analysis + charts for a dataset
  alembic report <file>        Full report (markdown/html/pdf) for a dataset
  alembic query <file> <q>     Ask a natural-language question about a dataset
  alembic patterns <file>      AI pattern detection for one column
  alembic correlation <file>   Explain the relationship between two columns

Services:
  alembic serve                Run the web dashboard
  alembic history              List previously persisted reports`

const alembicShortDesc string = "Alembic - AI research and data analytics"

func NewAlembicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alembic",
		Short: alembicShortDesc,
		Long:  alembicLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .alembic config directory")

	// Add subcommands
	cmd.AddCommand(researchcmder.NewResearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(analyzecmder.NewAnalyzeCmd())
	cmd.AddCommand(reportcmder.NewReportCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(patternscmder.NewPatternsCmd())
	cmd.AddCommand(correlationcmder.NewCorrelationCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
