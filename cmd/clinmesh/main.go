// Command clinmesh runs diagnostic encounters from the command line. The run
// subcommand drives a full automated encounter over a case file: the
// suggestion source drafts each action, the gatekeeper screens and dispatches
// it, and the judge scores the final diagnosis.
//
// API keys are read from the environment (.env files are honored), matching
// the SDK defaults: OPENAI_API_KEY for --provider openai and ANTHROPIC_API_KEY
// for --provider anthropic.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clinmesh/clinmesh"
	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/evaluation"
	"github.com/clinmesh/clinmesh/gatekeeper"
	"github.com/clinmesh/clinmesh/ledger"
	"github.com/clinmesh/clinmesh/logging"
	"github.com/clinmesh/clinmesh/model"
	modelanthropic "github.com/clinmesh/clinmesh/model/anthropic"
	modelopenai "github.com/clinmesh/clinmesh/model/openai"
	"github.com/clinmesh/clinmesh/store"
	"github.com/clinmesh/clinmesh/suggestion"
)

func init() {
	// a missing .env is fine; exported variables still apply
	_ = godotenv.Load()

	runCmd.Flags().String("case", "", "path to a case file (JSON)")
	runCmd.Flags().String("provider", "openai", "model provider: openai or anthropic")
	runCmd.Flags().String("model", "", "model identifier override for the chosen provider")
	runCmd.Flags().Int("max-turns", 20, "maximum actions before the run is abandoned")
	runCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	_ = runCmd.MarkFlagRequired("case")

	priceCmd.Flags().String("test", "", "test description to price")
	_ = priceCmd.MarkFlagRequired("test")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(priceCmd)
}

var rootCmd = &cobra.Command{
	Use:  "clinmesh",
	Long: `Turn-based diagnostic encounter engine for sequestered clinical case files`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an automated encounter",
	Long:  `Runs one complete encounter over a case file and prints the scored result as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		casePath, _ := cmd.Flags().GetString("case")
		provider, _ := cmd.Flags().GetString("provider")
		modelID, _ := cmd.Flags().GetString("model")
		maxTurns, _ := cmd.Flags().GetInt("max-turns")
		logLevel, _ := cmd.Flags().GetString("log-level")

		llm, err := buildModel(provider, modelID)
		if err != nil {
			return err
		}

		cases := store.NewInMemoryCaseStore()
		caseFile, err := cases.LoadFile(casePath)
		if err != nil {
			return fmt.Errorf("load case: %w", err)
		}

		mesh := clinmesh.New(func(o *clinmesh.Options) {
			o.Gatekeeper = gatekeeper.New(
				gatekeeper.NewPatientResponder(llm),
				gatekeeper.NewExaminationResponder(llm),
			)
			o.Suggester = suggestion.NewModelSuggester(llm)
			o.Judge = evaluation.NewModelJudge(llm)
			o.Cases = cases
			o.Logger = logging.NewSlogLogger(logging.ParseLevel(logLevel), "text")
		})

		enc, err := mesh.StartEncounter(caseFile)
		if err != nil {
			return err
		}
		elog := logging.NewEncounterLogger(logging.ParseLevel(logLevel), "text", cmd.ErrOrStderr()).
			WithComponent("cli").
			WithEncounter(enc.ID, caseFile.CaseID)

		ctx := context.Background()
		if err := runEncounter(ctx, elog, mesh, enc.ID, maxTurns); err != nil {
			return err
		}

		result, err := mesh.Finalize(ctx, enc.ID)
		if err != nil {
			return fmt.Errorf("finalize: %w", err)
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// runEncounter drives the suggest-validate-submit loop until the suggestion
// source commits to a diagnosis or the turn budget runs out. Drafts rejected
// by request validation are skipped without consuming a turn; two consecutive
// rejections abandon the run rather than loop forever.
func runEncounter(ctx context.Context, elog *logging.EncounterLogger, mesh *clinmesh.ClinMesh, encounterID string, maxTurns int) error {
	rejected := 0
	for turns := 0; turns < maxTurns; {
		draft, err := mesh.RequestSuggestion(ctx, encounterID)
		if err != nil {
			return fmt.Errorf("suggestion: %w", err)
		}
		if draft == nil {
			return fmt.Errorf("suggestion source returned no draft")
		}

		if ok, guidance := mesh.ValidateRequest(draft.ActionType, draft.Content); !ok {
			elog.Warn("rejected %s %q: %s", draft.ActionType, draft.Content, guidance)
			rejected++
			if rejected >= 2 {
				return fmt.Errorf("suggestion source kept producing unspecific requests")
			}
			continue
		}
		rejected = 0

		start := time.Now()
		snapshot, resp, err := mesh.SubmitAction(ctx, encounterID, draft.ActionType, draft.Content, core.OriginAISuggestedAccepted)
		if err != nil {
			return fmt.Errorf("submit turn: %w", err)
		}
		turns++

		if draft.ActionType == core.ActionDiagnose {
			elog.Info("diagnosis submitted: %s", draft.Content)
			return nil
		}
		elog.LogResponderCall(string(resp.Source), resp.TurnIndex, time.Since(start), nil)
		elog.Info("turn %d (%s) %s -> %s [cumulative cost %.2f]",
			resp.TurnIndex, draft.ActionType, draft.Content, resp.Content, snapshot.CumulativeCost)
	}
	return fmt.Errorf("no diagnosis within %d turns; raise --max-turns", maxTurns)
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Look up the price of a test",
	Long:  `Resolves a test description against the built-in price table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		test, _ := cmd.Flags().GetString("test")
		cpt, amount := ledger.New().Price(test)
		if cpt == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: unlisted, default cost %.2f\n", test, amount)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: CPT %s, %.2f\n", test, *cpt, amount)
		return nil
	},
}

func buildModel(provider, modelID string) (model.Model, error) {
	switch provider {
	case "openai":
		return modelopenai.NewModel(func(o *modelopenai.Options) {
			if modelID != "" {
				o.Model = modelID
			}
		}), nil
	case "anthropic":
		return modelanthropic.NewModel(func(o *modelanthropic.Options) {
			if modelID != "" {
				o.Model = anthropicsdk.Model(modelID)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or anthropic)", provider)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
