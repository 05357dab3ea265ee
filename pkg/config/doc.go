// Package config loads client settings for the livejobs binary.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// an optional .env file, then LIVEJOBS_* environment variables. The result
// is validated before it is returned.
//
//	cfg, err := config.Load("livejobs.yaml")
//	if err != nil {
//	    return err
//	}
//	logger, err := cfg.Log.NewLogger(os.Stderr)
package config
