// Command covidtesting shows COVID-19 testing per capita for US states.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/covidtesting/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
