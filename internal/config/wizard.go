package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to shopassist! Let's configure your store assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Listener port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port for the widget API",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 2. Support phone shown at checkout.
	phonePrompt := promptui.Prompt{
		Label:   "Support phone number shown at checkout",
		Default: cfg.Chat.SupportPhone,
	}
	if cfg.Chat.SupportPhone, err = phonePrompt.Run(); err != nil {
		return nil, fmt.Errorf("support phone: %w", err)
	}

	// 3. Ticket backend.
	backendPrompt := promptui.Select{
		Label: "Where should support tickets be stored?",
		Items: []string{
			"sqlite: alongside the catalog in the data directory",
			"mongo:  a MongoDB collection",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("support backend: %w", err)
	}
	if backendIdx == 1 {
		cfg.Support.Backend = SupportMongo
		mongoPrompt := promptui.Prompt{
			Label:   "MongoDB URI",
			Default: "mongodb://localhost:27017",
		}
		if cfg.Mongo.URI, err = mongoPrompt.Run(); err != nil {
			return nil, fmt.Errorf("mongo uri: %w", err)
		}
	}

	// 4. Optional Redis.
	redisPrompt := promptui.Prompt{
		Label:   "Redis URL for shared session state (leave blank to keep state in memory)",
		Default: "",
	}
	if cfg.Redis.URL, err = redisPrompt.Run(); err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Println("Next: run `shopassist seed` to load the catalog, then `shopassist serve`.")
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}
