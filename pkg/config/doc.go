// Package config provides unified configuration management for the mesa
// table toolkit.
//
// All mesa tools share a single BaseConfig structure with structured
// sections, so a YAML file written for one command works for every other
// command that touches the same concerns.
//
// # Key Features
//
// - BaseConfig: single configuration structure shared by the CLI and the I/O packages
// - Structured sections: CSV, Output, Compression, Logging
// - Environment variable substitution with ${VAR_NAME} syntax
// - Automatic defaults and validation
//
// # Usage
//
// ## Basic Configuration Loading
//
//	var cfg config.BaseConfig
//	err := config.Load("mesa.yaml", &cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Creating Tool Configurations
//
//	type ConvertConfig struct {
//		config.BaseConfig `yaml:",inline" json:",inline"`
//
//		// Tool-specific fields
//		InputPath string `yaml:"input_path" json:"input_path"`
//	}
//
//	func newConvert() *convert {
//		cfg := config.NewBaseConfig("convert")
//		// cfg now has all sensible defaults
//
//		return &convert{config: cfg}
//	}
//
// ## Environment Variable Substitution
//
// Configuration files may reference environment variables:
//
//	output:
//	  format: ${MESA_FORMAT}
//	compression:
//	  enabled: true
//	  algorithm: ${MESA_COMPRESSION}
//
// References are replaced before the YAML is parsed, so a variable can hold
// any scalar the field accepts. Unset variables substitute to the empty
// string and fall through to the section defaults.
package config
