package main

import (
	"os"

	"github.com/rippled-monitor/monitor-ctl/cmd"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
