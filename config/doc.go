// Package config loads layered configuration with Viper.
//
// Values are resolved with the precedence command-line flag > environment
// variable > config file > default. Environment variables carry a prefix
// derived from the service name and use underscores for nesting:
//
//	TEXTPIPE_PIPELINE_FROM=ISO-8859-1 -> pipeline.from
//
// A .env file found next to the config file is loaded into the environment
// first; variables that are already set win over it.
//
//	var cfg MyConfig
//	err := config.LoadConfig("textpipe", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithFlag("pipeline.from", flags.Lookup("from")))
package config
