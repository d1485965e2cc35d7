// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/elastsim/msfem/cmd"
)

func main() {

	// catch errors
	failed := false
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				io.PfRed("ERROR: %v\n", err)
			}
			failed = true
		}
		mpi.Stop(false)
		if failed {
			os.Exit(1)
		}
	}()
	mpi.Start(false)

	// message
	if mpi.Rank() == 0 {
		io.PfWhite("\nMsfem -- Multiscale Finite Element Method for Linear Elasticity\n\n")
	}

	// run
	err := cmd.Execute()
	if err != nil {
		if mpi.Rank() == 0 {
			io.PfRed("ERROR: %v\n", err)
		}
		failed = true
	}
}
