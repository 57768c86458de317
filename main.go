package main

import (
	"errors"
	"fmt"
	"os"

	"pscopilot/chat"
	"pscopilot/config"
	"pscopilot/provider"
	"pscopilot/tools"
	"pscopilot/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	apiKey, err := config.APIKey(cfg.Provider, cfg.DataDir())
	if err != nil {
		msg := fmt.Sprintf("Failed to initialize AI service: %v", err)
		if errors.Is(err, config.ErrAPIKeyNotFound) {
			msg = fmt.Sprintf("%s API key was not found.", cfg.Provider)
		}
		if runErr := ui.RunConfigError(msg); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		os.Exit(1)
	}

	registry := tools.NewRegistry()
	tools.RegisterDiagnostics(registry)

	completer, err := provider.New(*cfg, apiKey, chat.SystemInstruction, registry.Schemas())
	if err != nil {
		if runErr := ui.RunConfigError(err.Error()); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		os.Exit(1)
	}

	transcripts, err := chat.NewTranscriptStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize transcript storage: %v\n", err)
		os.Exit(1)
	}

	transcript := chat.NewTranscript(chat.WelcomeText)
	orch := chat.NewOrchestrator(transcript, completer, registry)

	modelName := cfg.Model
	if modelName == "" {
		modelName = cfg.Provider
	}

	if err := ui.Run(orch, transcripts, modelName); err != nil {
		fmt.Printf("Error running pscopilot: %v\n", err)
		os.Exit(1)
	}
}
