package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/cmd"
	"github.com/rvasquez-dev/suiarb/utils"
)

func main() {
	utils.InitLogger(false)
	log := utils.GetLogger()
	defer utils.CleanupLogger()

	if err := cmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
