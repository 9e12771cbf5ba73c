package main

import (
	"github.com/alecthomas/kong"

	"serveza.dev/Serveza/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Serveza"), kong.Description("Serveza is a location-aware directory of bars and the beers they serve."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
