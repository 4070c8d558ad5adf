package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/classify"
	"github.com/wallinder/levrec/match"
	"github.com/wallinder/levrec/report"
	"github.com/wallinder/levrec/sie"
	"github.com/wallinder/levrec/telemetry"
)

type ReconcileCmd struct {
	Files []string `arg:"" help:"SIE input files. Vouchers are pooled; the target and carry-over years are selected by date." type:"existingfile"`

	Year        int    `help:"Target fiscal year to reconcile." required:""`
	Opening     string `help:"Opening balance of the accounts-payable account." default:"0"`
	MaxDays     int    `help:"Maximum days between receipt and clearing." default:"120"`
	APAccount   string `help:"Accounts-payable account number." default:"2440"`
	BankAccount string `help:"Bank account number." default:"1930"`

	Output        string `help:"Write the combined case report here (stdout when empty)." short:"o" type:"path"`
	SummaryOutput string `help:"Write the summary report here." type:"path"`
	Force         bool   `help:"Overwrite existing report files without asking."`
}

func (cmd *ReconcileCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, opening, err := cmd.config()
	if err != nil {
		return err
	}

	runCtx := context.Background()
	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewStageCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	run, err := executePipeline(runCtx, cmd.Files, cfg, opening)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return err
	}

	printWarnings(ctx.Stderr, run.Warnings, globals.Verbose)
	printSummary(ctx.Stderr, run.Result.Summary, run.Currency)
	if len(run.Result.ExcludedIDs) > 0 {
		printInfof(ctx.Stderr, "excluded correction pairs: %v", run.Result.ExcludedIDs)
	}

	w := report.NewWriter(cfg, run.Currency)
	if cmd.Output == "" {
		if err := w.WriteCases(ctx.Stdout, run.Result.Cases); err != nil {
			return err
		}
	} else {
		ok, err := confirmOverwrite(cmd.Output, cmd.Force)
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stderr, "skipped %s", cmd.Output)
		} else {
			if err := w.WriteCasesFile(cmd.Output, run.Result.Cases); err != nil {
				return err
			}
			printSuccess(ctx.Stderr, fmt.Sprintf("wrote %d case(s) to %s", len(run.Result.Cases), cmd.Output))
		}
	}

	if cmd.SummaryOutput != "" {
		ok, err := confirmOverwrite(cmd.SummaryOutput, cmd.Force)
		if err != nil {
			return err
		}
		if ok {
			if err := w.WriteSummaryFile(cmd.SummaryOutput, run.Result.Summary); err != nil {
				return err
			}
			printSuccess(ctx.Stderr, fmt.Sprintf("wrote summary to %s", cmd.SummaryOutput))
		}
	}

	if collector != nil {
		_, _ = fmt.Fprintln(ctx.Stderr)
		collector.Report(ctx.Stderr)
	}
	return nil
}

func (cmd *ReconcileCmd) config() (levrec.Config, decimal.Decimal, error) {
	cfg := levrec.DefaultConfig()
	cfg.TargetYear = cmd.Year
	cfg.MaxDays = cmd.MaxDays
	cfg.APAccount = cmd.APAccount
	cfg.BankAccount = cmd.BankAccount

	opening, err := decimal.NewFromString(cmd.Opening)
	if err != nil {
		return cfg, decimal.Zero, fmt.Errorf("invalid opening balance %q: %w", cmd.Opening, err)
	}
	return cfg, opening, nil
}

// pipelineRun is the outcome of one decode-classify-match pass.
type pipelineRun struct {
	Currency string
	Warnings []sie.Warning
	Result   *match.Result
}

// executePipeline decodes every input file, classifies the target and
// carry-over years and runs the matcher. Vouchers from other years are
// ignored.
func executePipeline(ctx context.Context, files []string, cfg levrec.Config, opening decimal.Decimal) (*pipelineRun, error) {
	run := &pipelineRun{Currency: "SEK"}

	decodeTimer := telemetry.Start(ctx, "decode")
	var targetVouchers, carryVouchers []sie.Voucher
	for _, path := range files {
		f, err := sie.DecodeFile(path, cfg)
		if err != nil {
			decodeTimer.End()
			return nil, err
		}
		if f.Currency != "" {
			run.Currency = f.Currency
		}
		run.Warnings = append(run.Warnings, f.Warnings...)
		targetVouchers = append(targetVouchers, f.VouchersInYear(cfg.TargetYear)...)
		carryVouchers = append(carryVouchers, f.VouchersInYear(cfg.TargetYear+1)...)
	}
	decodeTimer.End()

	classifyTimer := telemetry.Start(ctx, "classify")
	classifier := classify.NewClassifier(cfg)
	events := classifier.ClassifyAll(targetVouchers)
	carryOver := classifier.ClassifyAll(carryVouchers)
	classifyTimer.End()

	matchTimer := telemetry.Start(ctx, "match")
	run.Result = match.New(cfg).Match(match.Input{
		Vouchers:  targetVouchers,
		Events:    events,
		CarryOver: carryOver,
		Opening:   opening,
	})
	matchTimer.End()

	return run, nil
}
