package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/sie"
)

type DumpCmd struct {
	File string `arg:"" help:"SIE input filename." type:"existingfile"`
}

func (cmd *DumpCmd) Run(ctx *kong.Context) error {
	f, err := sie.DecodeFile(cmd.File, levrec.DefaultConfig())
	if err != nil {
		return err
	}

	repr.Println(f)
	return nil
}
