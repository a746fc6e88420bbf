// Package main provides the CLI entrypoint for ontomap.
//
// ontomap maps manufacturing ERP/MES exports onto the work order ontology:
//   - Detects the row granularity of an export (work order, operation, line item)
//   - Suggests column mappings from header names and sample values
//   - Lets operators review mappings, transformations and business rules in YAML
//   - Validates and scores the reviewed mapping before rows reach the loader
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"ontomap/internal/cli"
	"ontomap/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env: %v", err)
	}

	os.Exit(cli.Execute())
}
