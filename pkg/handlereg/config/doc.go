/*
Package config provides type-safe configuration extraction for registry
tables from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
It is used to describe registry tables in YAML or JSON without verbose type
assertions.

# Basic Usage

	cfg := config.New(map[string]any{
	    "name":     "meshes",
	    "capacity": 4096,
	    "metrics":  true,
	})

	name := cfg.String("name", "default")   // "meshes"
	capacity := cfg.Int("capacity", 0)      // 4096
	tracing := cfg.Bool("tracing", false)   // false

# Nested Tables

A renderer usually declares several tables at once:

	tables:
	  - name: meshes
	    capacity: 4096
	  - name: images
	    capacity: 512
	    metrics: true

	for _, table := range cfg.List("tables") {
	    opts := handlereg.OptionsFromConfig(table)
	    ...
	}

# File Loading

	cfg, err := config.FromFile("tables.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
