// Package evaluation implements the scoring pipeline run after a diagnosis
// is submitted: it builds the full action/response transcript, invokes a
// Judge capability and derives the structured benchmark result.
//
// The pipeline never retries a failed judge call; retry policy belongs to the
// caller (finalize is safe to call again while the encounter awaits
// evaluation).
package evaluation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinmesh/clinmesh/core"
	"github.com/clinmesh/clinmesh/logging"
)

// DefaultCorrectThreshold is the minimum judge score counted as a correct
// diagnosis.
const DefaultCorrectThreshold = 4

// Options configures a Pipeline.
type Options struct {
	// CorrectThreshold is the minimum score for IsCorrect (default 4).
	CorrectThreshold int
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Pipeline turns a finalized encounter into a BenchmarkResult.
type Pipeline struct {
	judge     core.Judge
	threshold int
	logger    logging.Logger
}

// NewPipeline constructs an evaluation pipeline around a judge capability.
func NewPipeline(judge core.Judge, optFns ...func(o *Options)) *Pipeline {
	opts := Options{CorrectThreshold: DefaultCorrectThreshold, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{judge: judge, threshold: opts.CorrectThreshold, logger: opts.Logger}
}

// Evaluate scores the encounter's final diagnosis against the case's ground
// truth. It fails with a core.EvaluationError when no diagnosis was
// submitted, when the judge capability errors, or when the judge returns a
// score outside 1..5.
func (p *Pipeline) Evaluate(ctx context.Context, enc *core.DiagnosticEncounter, caseFile *core.CaseFile) (*core.BenchmarkResult, error) {
	diagnosis, ok := enc.Diagnosis()
	if !ok {
		return nil, &core.EvaluationError{EncounterID: enc.ID, Err: fmt.Errorf("no final diagnosis submitted")}
	}

	transcript := BuildTranscript(enc)

	start := time.Now()
	verdict, err := p.judge.Score(ctx, transcript, diagnosis, caseFile.GroundTruthDiagnosis)
	if err != nil {
		p.logger.Error("judge call failed", "encounter_id", enc.ID, "error", err)
		return nil, &core.EvaluationError{EncounterID: enc.ID, Err: err}
	}
	if verdict.Score < 1 || verdict.Score > 5 {
		return nil, &core.EvaluationError{EncounterID: enc.ID, Err: fmt.Errorf("judge score %d outside 1..5", verdict.Score)}
	}
	p.logger.Info("judge call completed", "encounter_id", enc.ID, "score", verdict.Score, "duration", time.Since(start))

	return &core.BenchmarkResult{
		EncounterID:    enc.ID,
		CaseID:         enc.CaseID,
		JudgeScore:     verdict.Score,
		JudgeRationale: verdict.Rationale,
		IsCorrect:      verdict.Score >= p.threshold,
		TotalCost:      enc.Cost(),
		TurnCount:      enc.TurnCount(),
	}, nil
}

// BuildTranscript renders the encounter's action/response history as plain
// text for the judge. Only recorded turns appear; the hidden case record is
// never part of the transcript.
func BuildTranscript(enc *core.DiagnosticEncounter) string {
	snapshot := enc.Clone()
	responses := make(map[int]core.GatekeeperResponse, len(snapshot.Responses))
	for _, r := range snapshot.Responses {
		responses[r.TurnIndex] = r
	}

	var sb strings.Builder
	for _, a := range snapshot.Actions {
		switch a.ActionType {
		case core.ActionAskQuestion:
			fmt.Fprintf(&sb, "Turn %d [question]: %s\n", a.TurnIndex, a.Content)
		case core.ActionOrderTest:
			fmt.Fprintf(&sb, "Turn %d [test order]: %s\n", a.TurnIndex, a.Content)
		case core.ActionDiagnose:
			fmt.Fprintf(&sb, "Turn %d [final diagnosis]: %s\n", a.TurnIndex, a.Content)
		}
		if r, ok := responses[a.TurnIndex]; ok {
			fmt.Fprintf(&sb, "Turn %d [%s]: %s\n", a.TurnIndex, r.Source, r.Content)
		}
	}
	return sb.String()
}
