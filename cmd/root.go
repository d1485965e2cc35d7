// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cmd implements the command line interface
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cpmech/gosl/chk"

	"github.com/elastsim/msfem/fem"
)

var simFile string

var rootCmd = &cobra.Command{
	Use:           "msfem",
	Short:         "multiscale finite element simulations of linear elasticity",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return chk.Err("unexpected arguments: %v", args)
		}
		if simFile == "" {
			return chk.Err("missing parameter file; use -p <filename>")
		}
		return fem.RunProblem(simFile)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&simFile, "params", "p", "", "parameter (.sim/.yaml) file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
