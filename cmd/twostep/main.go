// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command twostep solves a coupled pressure/flow system with both the
// CPR and SIMPLE two-stage preconditioners and reports the iteration
// counts, the achieved residuals and a timing profile side by side.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/mtx"
	"github.com/artas360/amgcl/profile"
	"github.com/artas360/amgcl/registry"
)

type options struct {
	paramFile string
	binary    bool
	matrix    string
	pmask     string
	rhs       string

	coarsening string
	prelax     string
	frelax     string
	solver     string

	output string
}

func main() {
	var opt options

	cmd := &cobra.Command{
		Use:          "twostep",
		Short:        "Compare the CPR and SIMPLE preconditioners on a coupled system",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(&opt)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opt.paramFile, "params", "p", "", "parameter file in json format")
	f.BoolVarP(&opt.binary, "binary", "B", false,
		"treat input files as binary instead of as MatrixMarket")
	f.StringVarP(&opt.matrix, "matrix", "A", "", "the system matrix in MatrixMarket format")
	f.StringVarP(&opt.pmask, "pmask", "m", "",
		"the pressure mask in MatrixMarket format; or, if the parameter has the form "+
			"'%n:m', each (n+i*m)-th unknown is treated as pressure")
	f.StringVarP(&opt.rhs, "rhs", "b", "", "the right-hand side in MatrixMarket format")
	f.StringVarP(&opt.coarsening, "coarsening", "c", string(registry.SmoothedAggregation),
		"ruge_stuben, aggregation, smoothed_aggregation, smoothed_aggr_emin")
	f.StringVarP(&opt.prelax, "pressure-relaxation", "r", string(registry.SPAI0),
		"damped_jacobi, gauss_seidel, ilu0, spai0, lu")
	f.StringVarP(&opt.frelax, "flow-relaxation", "f", string(registry.ILU0),
		"damped_jacobi, gauss_seidel, ilu0, spai0, lu")
	f.StringVarP(&opt.solver, "solver", "s", string(registry.BiCGStab),
		"cg, bicgstab, bicgstabl, gmres")
	f.StringVarP(&opt.output, "output", "o", "out.mtx",
		"the output file (saved in MatrixMarket format)")
	cobra.CheckErr(cmd.MarkFlagRequired("matrix"))
	cobra.CheckErr(cmd.MarkFlagRequired("pmask"))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opt *options) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	if _, err := registry.ParseSolverKind(opt.solver); err != nil {
		return err
	}
	if _, err := registry.ParseCoarseningKind(opt.coarsening); err != nil {
		return err
	}
	if _, err := registry.ParseRelaxationKind(opt.prelax); err != nil {
		return err
	}
	if _, err := registry.ParseRelaxationKind(opt.frelax); err != nil {
		return err
	}

	prof := profile.New("Profile")

	prof.Tic("read")
	a, err := readMatrix(opt)
	if err != nil {
		return fmt.Errorf("reading system matrix: %w", err)
	}
	n, _ := a.Dims()
	log.Infow("read system matrix", "file", opt.matrix, "rows", n, "nnz", a.Nnz())

	v := viper.New()
	if opt.paramFile != "" {
		v.SetConfigFile(opt.paramFile)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading parameter file: %w", err)
		}
	}

	if err := setPressureMask(v, opt, n); err != nil {
		return err
	}

	rhs, err := readRHS(opt, n)
	if err != nil {
		return err
	}
	if rhs == nil {
		log.Info("rhs was not provided; using default value of 1")
		rhs = make([]float64, n)
		for i := range rhs {
			rhs[i] = 1
		}
	}

	v.Set(registry.KeySolverType, opt.solver)
	v.Set(registry.KeyPressureCoarsening, opt.coarsening)
	v.Set(registry.KeyPressureRelaxation, opt.prelax)
	v.Set(registry.KeyFlowType, opt.frelax)
	prof.Toc("read")

	prof.Tic("setup")
	prof.Tic("cpr")
	v.Set(registry.KeyPrecondType, string(registry.PrecondCPR))
	cpr, err := registry.Make(a, v)
	if err != nil {
		return fmt.Errorf("setting up cpr: %w", err)
	}
	prof.Toc("cpr")

	prof.Tic("simple")
	v.Set(registry.KeyPrecondType, string(registry.PrecondSimple))
	simple, err := registry.Make(a, v)
	if err != nil {
		return fmt.Errorf("setting up simple: %w", err)
	}
	prof.Toc("simple")
	prof.Toc("setup")

	x := make([]float64, n)

	prof.Tic("solve")
	prof.Tic("cpr")
	res := cpr.Solve(rhs, x)
	prof.Toc("cpr")

	fmt.Printf("CPR:\n")
	fmt.Printf("  Iterations:     %d\n", res.Iterations)
	fmt.Printf("  Reported Error: %g\n\n", res.Residual)

	for i := range x {
		x[i] = 0
	}

	prof.Tic("simple")
	res = simple.Solve(rhs, x)
	prof.Toc("simple")

	fmt.Printf("SIMPLE:\n")
	fmt.Printf("  Iterations:     %d\n", res.Iterations)
	fmt.Printf("  Reported Error: %g\n\n", res.Residual)
	prof.Toc("solve")

	if err := mtx.WriteDenseFile(opt.output, n, 1, x); err != nil {
		return fmt.Errorf("writing solution: %w", err)
	}
	log.Infow("wrote solution", "file", opt.output)

	fmt.Println(prof)
	return nil
}

func readMatrix(opt *options) (*native.Matrix, error) {
	if opt.binary {
		return mtx.ReadBinaryCRSFile(opt.matrix)
	}
	return mtx.ReadMatrixFile(opt.matrix)
}

// setPressureMask stores the pressure mask in the configuration tree,
// either verbatim as a "%start:stride" string or as the thresholded
// contents of a dense file.
func setPressureMask(v *viper.Viper, opt *options, n int) error {
	if strings.HasPrefix(opt.pmask, "%") {
		v.Set(registry.KeyPrecondPMask, opt.pmask)
		return nil
	}

	var (
		rows, cols int
		pm         []float64
		err        error
	)
	if opt.binary {
		rows, cols, pm, err = mtx.ReadBinaryDenseFile(opt.pmask)
	} else {
		rows, cols, pm, err = mtx.ReadDenseFile(opt.pmask)
	}
	if err != nil {
		return fmt.Errorf("reading pressure mask: %w", err)
	}
	if rows != n || cols != 1 {
		return fmt.Errorf("pressure mask has wrong size %d×%d, want %d×1", rows, cols, n)
	}

	mask := make([]byte, n)
	for i, p := range pm {
		if p != 0 {
			mask[i] = 1
		}
	}
	v.Set(registry.KeyPrecondPMask, mask)
	return nil
}

func readRHS(opt *options, n int) ([]float64, error) {
	if opt.rhs == "" {
		return nil, nil
	}

	var (
		rows, cols int
		rhs        []float64
		err        error
	)
	if opt.binary {
		rows, cols, rhs, err = mtx.ReadBinaryDenseFile(opt.rhs)
	} else {
		rows, cols, rhs, err = mtx.ReadDenseFile(opt.rhs)
	}
	if err != nil {
		return nil, fmt.Errorf("reading rhs: %w", err)
	}
	if rows != n || cols != 1 {
		return nil, fmt.Errorf("rhs has wrong size %d×%d, want %d×1", rows, cols, n)
	}
	return rhs, nil
}
