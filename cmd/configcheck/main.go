// Command configcheck loads the service configuration the same way the
// server does and prints it as YAML with secrets masked.
package main

import (
	"fmt"
	"os"

	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"gopkg.in/yaml.v3"
)

func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration invalid: %v\n", err)
		os.Exit(1)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode configuration: %v\n", err)
		os.Exit(1)
	}
	_ = enc.Close()
}
