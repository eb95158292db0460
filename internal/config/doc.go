// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend location, timeouts, retries, debug logging
//   - SessionConfig: inactivity timeout and credential store
//   - LoggingConfig: log level and rotation
//   - UIConfig: terminal preferences
//
// # Configuration Precedence
//
// Highest first:
//   - Environment variables (NEXT_PUBLIC_*, PROPMATCH_*)
//   - .env, then .env.local in the working directory
//   - ~/.propmatch/config.toml, or config.json when no TOML file exists
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.APIOptions(log))
package config
