// Package config manages the client configuration file.
//
// The file is YAML and lives in a platform-appropriate location:
//   - Linux: $XDG_CONFIG_HOME/agama/config.yaml or $HOME/.config/agama/config.yaml
//   - macOS: $HOME/.config/agama/config.yaml
//   - Windows: %LOCALAPPDATA%\agama\config.yaml
//
// AGAMA_API_URL and AGAMA_LOG_LEVEL override the stored values. Passwords are
// never written to the file; AGAMA_API_PASSWORD supplies one when needed.
//
// # Usage Example
//
//	cfg, err := config.LoadDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.RememberServer("agama on install-01", "http://192.168.1.20/api")
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Saves go through a temporary file and a rename so a crash never leaves a
// truncated file behind.
package config
