package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/benbjohnson/vecx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors vecx.Config in the config file:
//
//	weights:
//	  vec_op: 1
//	  structure: 2000
//	  literal: 1
//	workers: 4
//	prune: true
//	searcher: dfs   # dfs, bfs or random
//	seed: 0         # random searcher only
type fileConfig struct {
	Weights struct {
		VecOp     int `yaml:"vec_op"`
		Structure int `yaml:"structure"`
		Literal   int `yaml:"literal"`
	} `yaml:"weights"`
	Workers  int    `yaml:"workers"`
	Prune    bool   `yaml:"prune"`
	Searcher string `yaml:"searcher"`
	Seed     int64  `yaml:"seed"`
}

// readConfigFile overlays the settings found in the file at path onto config.
// Settings missing from the file are left unchanged.
func readConfigFile(path string, config *vecx.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var fc fileConfig
	fc.Weights.VecOp = config.Weights.VecOp
	fc.Weights.Structure = config.Weights.Structure
	fc.Weights.Literal = config.Weights.Literal
	fc.Workers, fc.Prune = config.Workers, config.Prune

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	config.Weights = vecx.Weights{
		VecOp:     fc.Weights.VecOp,
		Structure: fc.Weights.Structure,
		Literal:   fc.Weights.Literal,
	}
	config.Workers, config.Prune = fc.Workers, fc.Prune

	switch fc.Searcher {
	case "", "dfs":
	case "bfs":
		config.NewSearcher = func() vecx.Searcher { return vecx.NewBFSSearcher() }
	case "random":
		seed := fc.Seed
		config.NewSearcher = func() vecx.Searcher { return vecx.NewRandomSearcher(rand.New(rand.NewSource(seed))) }
	default:
		return fmt.Errorf("unknown searcher %q", fc.Searcher)
	}
	return nil
}

// config builds the extractor configuration from the config file and flags.
// Flags take precedence over the file.
func (m *Main) config(cmd *cobra.Command) (vecx.Config, error) {
	config := vecx.DefaultConfig()
	if m.ConfigPath != "" {
		if err := readConfigFile(m.ConfigPath, &config); err != nil {
			return config, fmt.Errorf("load config: %w", err)
		}
	}

	if cmd.Flags().Changed("workers") {
		config.Workers = m.Workers
	}
	if m.NoPrune {
		config.Prune = false
	}
	if m.BFS {
		config.NewSearcher = func() vecx.Searcher { return vecx.NewBFSSearcher() }
	}
	config.Logger = m.logger()

	if err := config.Weights.Validate(); err != nil {
		return config, fmt.Errorf("load config: %w", err)
	}
	return config, nil
}
