package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/sie"
)

type CheckCmd struct {
	File string `arg:"" help:"SIE input filename." type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg := levrec.DefaultConfig()

	f, err := sie.DecodeFile(cmd.File, cfg)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return err
	}

	balanced := 0
	apBearing := 0
	for i := range f.Vouchers {
		if cfg.Negligible(f.Vouchers[i].Imbalance()) {
			balanced++
		}
		if f.Vouchers[i].HasAccount(cfg.APAccount) {
			apBearing++
		}
	}

	printInfof(ctx.Stdout, "encoding: %s", f.Encoding)
	if f.Company != "" {
		printInfof(ctx.Stdout, "company: %s", f.Company)
	}
	for _, fy := range f.FiscalYears {
		printInfof(ctx.Stdout, "fiscal year %d: %s to %s",
			fy.Index, fy.Start.Format("2006-01-02"), fy.End.Format("2006-01-02"))
	}
	printInfof(ctx.Stdout, "vouchers: %d (%d balanced, %d on account %s)",
		len(f.Vouchers), balanced, apBearing, cfg.APAccount)

	printWarnings(ctx.Stderr, f.Warnings, globals.Verbose)

	printSuccess(ctx.Stdout, fmt.Sprintf("parsed %d voucher(s)", len(f.Vouchers)))
	return nil
}
