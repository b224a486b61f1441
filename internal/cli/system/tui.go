package system

import (
	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	return tui.Run(ctx.Context(), a)
}
