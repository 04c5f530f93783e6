package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/coin-change/internal/coins"
	"github.com/eugenenazirov/coin-change/internal/config"
	"github.com/eugenenazirov/coin-change/internal/logging"
)

const defaultDenominations = "1,2,5,10,20,50,100,200"

var newSolver = coins.NewSolver

// errAmountAboveLimit mirrors the server's max_amount check.
var errAmountAboveLimit = errors.New("amount exceeds --max-amount")

type solveOptions struct {
	amount        int
	denominations string
	algorithm     string
	timeout       time.Duration
	maxAmount     int
	format        string
}

type solveOutput struct {
	Algorithm     coins.Algorithm `json:"algorithm" yaml:"algorithm"`
	Amount        int             `json:"amount" yaml:"amount"`
	Denominations []int           `json:"denominations" yaml:"denominations"`
	Coins         map[int]int     `json:"coins" yaml:"coins"`
	TotalCoins    int             `json:"totalCoins" yaml:"total_coins"`
	FrontierPeak  int             `json:"frontierPeak" yaml:"frontier_peak"`
	Optimal       bool            `json:"optimal" yaml:"optimal"`
	Elapsed       string          `json:"elapsed" yaml:"elapsed"`
}

func main() {
	app := kingpin.New("coins", "Pays amounts with the fewest coins from the command line")
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	solveCmd := app.Command("solve", "Solve a single amount")
	var solve solveOptions
	solveCmd.Flag("amount", "Amount to pay").Required().IntVar(&solve.amount)
	solveCmd.Flag("denominations", "Comma-separated coin values").Default(defaultDenominations).StringVar(&solve.denominations)
	solveCmd.Flag("algorithm", "Solver to use").Default(string(coins.BranchAndBound)).StringVar(&solve.algorithm)
	solveCmd.Flag("timeout", "Time budget for the search").Default("10s").DurationVar(&solve.timeout)
	solveCmd.Flag("max-amount", "Largest amount accepted (0 disables the check)").Default(strconv.Itoa(config.DefaultMaxAmount)).IntVar(&solve.maxAmount)
	solveCmd.Flag("format", "Output format").Default("json").EnumVar(&solve.format, "json", "yaml")

	compareCmd := app.Command("compare", "Run every algorithm on the same input")
	var compare solveOptions
	compareCmd.Flag("amount", "Amount to pay").Required().IntVar(&compare.amount)
	compareCmd.Flag("denominations", "Comma-separated coin values").Default(defaultDenominations).StringVar(&compare.denominations)
	compareCmd.Flag("timeout", "Time budget per algorithm").Default("10s").DurationVar(&compare.timeout)
	compareCmd.Flag("max-amount", "Largest amount accepted (0 disables the check)").Default(strconv.Itoa(config.DefaultMaxAmount)).IntVar(&compare.maxAmount)

	algorithmsCmd := app.Command("algorithms", "List available algorithms")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*logLevel)
	if err != nil {
		app.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case solveCmd.FullCommand():
		err = runSolve(context.Background(), os.Stdout, logger, solve)
	case compareCmd.FullCommand():
		err = runCompare(context.Background(), os.Stdout, logger, compare)
	case algorithmsCmd.FullCommand():
		err = runAlgorithms(os.Stdout)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func checkAmount(opts solveOptions) error {
	if opts.maxAmount > 0 && opts.amount > opts.maxAmount {
		return fmt.Errorf("%w: %d > %d", errAmountAboveLimit, opts.amount, opts.maxAmount)
	}
	return nil
}

func runSolve(ctx context.Context, w io.Writer, logger *zap.Logger, opts solveOptions) error {
	if err := checkAmount(opts); err != nil {
		return err
	}
	denominations, err := config.ParseDenominations(opts.denominations)
	if err != nil {
		return fmt.Errorf("parse denominations: %w", err)
	}
	alg, err := coins.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}
	solver, err := newSolver(alg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	res, solveErr := solver.MinCoins(ctx, opts.amount, denominations)
	elapsed := time.Since(start)

	logger.Debug("solver finished",
		zap.String("algorithm", string(alg)),
		zap.Int("amount", opts.amount),
		zap.Int("frontier_peak", res.FrontierPeak),
		zap.Duration("duration", elapsed),
		zap.Error(solveErr),
	)

	if solveErr != nil && !(errors.Is(solveErr, coins.ErrSearchInterrupted) && res.Coins != nil) {
		return solveErr
	}
	if solveErr != nil {
		logger.Warn("search interrupted, reporting best solution found so far", zap.Error(solveErr))
	}

	out := solveOutput{
		Algorithm:     alg,
		Amount:        opts.amount,
		Denominations: denominations,
		Coins:         res.Coins,
		TotalCoins:    res.TotalCoins,
		FrontierPeak:  res.FrontierPeak,
		Optimal:       res.Optimal,
		Elapsed:       elapsed.String(),
	}
	if err := writeOutput(w, opts.format, out); err != nil {
		return err
	}
	return solveErr
}

func writeOutput(w io.Writer, format string, out solveOutput) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

func runCompare(ctx context.Context, w io.Writer, logger *zap.Logger, opts solveOptions) error {
	if err := checkAmount(opts); err != nil {
		return err
	}
	denominations, err := config.ParseDenominations(opts.denominations)
	if err != nil {
		return fmt.Errorf("parse denominations: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tCOINS\tOPTIMAL\tFRONTIER\tELAPSED")
	for _, alg := range coins.Algorithms() {
		solver, err := newSolver(alg)
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		start := time.Now()
		res, solveErr := solver.MinCoins(runCtx, opts.amount, denominations)
		elapsed := time.Since(start)
		cancel()

		logger.Debug("solver finished",
			zap.String("algorithm", string(alg)),
			zap.Int("amount", opts.amount),
			zap.Duration("duration", elapsed),
			zap.Error(solveErr),
		)

		coinsCol := fmt.Sprint(res.TotalCoins)
		if solveErr != nil {
			coinsCol = solveErr.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\n", alg, coinsCol, res.Optimal, res.FrontierPeak, elapsed.Round(time.Microsecond))
	}
	return tw.Flush()
}

func runAlgorithms(w io.Writer) error {
	for _, alg := range coins.Algorithms() {
		if _, err := fmt.Fprintln(w, alg); err != nil {
			return err
		}
	}
	return nil
}
