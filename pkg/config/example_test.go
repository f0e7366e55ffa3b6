package config_test

import (
	"fmt"
	"log"

	"github.com/datamesa/mesa/pkg/config"
)

// ExampleNewBaseConfig demonstrates creating a new base configuration
// with default values.
func ExampleNewBaseConfig() {
	// Create a new base configuration for the convert tool
	cfg := config.NewBaseConfig("convert")

	// The configuration comes with sensible defaults
	fmt.Printf("Delimiter: %s\n", cfg.CSV.Delimiter)
	fmt.Printf("Format: %s\n", cfg.Output.Format)
	fmt.Printf("Mode: %s\n", cfg.Output.Mode)

	// Output:
	// Delimiter: ,
	// Format: csv
	// Mode: mixed
}

// ExampleBaseConfig_Validate shows how to validate a configuration
// before using it.
func ExampleBaseConfig_Validate() {
	cfg := config.NewBaseConfig("convert")

	// Modify some values
	cfg.Output.Format = "parquet"
	cfg.Compression.Enabled = true
	cfg.Compression.Algorithm = "zstd"

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	// Output:
	// Configuration is valid!
}

// ExampleLoad demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	// Example configuration structure embedding BaseConfig
	type ConvertConfig struct {
		config.BaseConfig `yaml:",inline" json:",inline"`
		InputPath         string `yaml:"input_path" json:"input_path"`
		OutputPath        string `yaml:"output_path" json:"output_path"`
	}

	// In practice, you would load from a file:
	// var cfg ConvertConfig
	// if err := config.Load("mesa.yaml", &cfg); err != nil {
	//     log.Fatal(err)
	// }

	// For this example, we'll create one manually
	cfg := ConvertConfig{
		BaseConfig: *config.NewBaseConfig("convert"),
		InputPath:  "data/events.csv",
		OutputPath: "data/events.parquet",
	}

	fmt.Printf("Name: %s\n", cfg.Name)
	fmt.Printf("Input: %s\n", cfg.InputPath)

	// Output:
	// Name: convert
	// Input: data/events.csv
}
