package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mikey/llm-email-assistant/internal/core"
	"github.com/mikey/llm-email-assistant/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run reads a triage request as JSON from a file or stdin, processes it
// and prints the response as JSON.
func run(flags *di.CLIFlags, logger *zap.Logger, service *core.AssistantService) error {
	defer logger.Sync()

	var input io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		input = file
		logger.Info("Reading request from file", zap.String("file", flags.InputFile))
	} else {
		input = os.Stdin
		logger.Info("Reading request from stdin")
	}

	var req core.TriageRequest
	if err := json.NewDecoder(input).Decode(&req); err != nil {
		logger.Fatal("Failed to decode request", zap.Error(err))
	}

	resp, err := service.ProcessEmail(context.Background(), &req)
	if err != nil {
		logger.Fatal("Failed to process email", zap.Error(err))
	}

	output, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode response", zap.Error(err))
	}
	fmt.Println(string(output))

	return nil
}
