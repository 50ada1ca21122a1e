package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ywan0849/jsthermalcomfort/comfort"
	"github.com/ywan0849/jsthermalcomfort/internal/config"
	"github.com/ywan0849/jsthermalcomfort/internal/logging"
)

// job is a set of observations with the resolved calculation conditions
// and the recorder holding their SET.
type job struct {
	in     comfort.BatchInput
	params comfort.Params
	opts   comfort.Options
	rec    *Recorder
}

/*
観測データを読み込み、SETを計算する。

	Args:
		cfg: 計算条件
		inputPath: 観測データCSVファイルへのパス
		logger

	Returns:
		SETを記録した計算ジョブ
*/
func prepare(cfg config.Config, inputPath string, logger *slog.Logger) (*job, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger

	logger.Info("loading observations", slog.String("path", inputPath))
	rows, err := readObservations(inputPath)
	if err != nil {
		return nil, err
	}
	in := toBatch(rows, params.Wme)

	set, err := comfort.SetTmpArray(in, params, opts)
	if err != nil {
		return nil, err
	}

	rec := NewRecorder(len(rows))
	for i, row := range rows {
		rec.record(i, row, set[i], math.NaN(), comfort.PmvPpdResult{PMV: math.NaN(), PPD: math.NaN()})
	}
	return &job{in: in, params: params, opts: opts, rec: rec}, nil
}

/*
快適性指標の計算処理の実行

	Args:
		cfg: 計算条件
		inputPath: 観測データCSVファイルへのパス
		out: 出力先
		logger
*/
func run(cfg config.Config, inputPath string, out io.Writer, logger *slog.Logger) error {
	standard, err := comfort.ParseStandard(cfg.Standard)
	if err != nil {
		return err
	}

	// ---- 計算 ----

	j, err := prepare(cfg, inputPath, logger)
	if err != nil {
		return err
	}
	ce, err := comfort.CoolingEffectArray(j.in, j.params, j.opts)
	if err != nil {
		return err
	}
	pmv, err := comfort.PmvPpdArray(j.in, standard, j.params, j.opts)
	if err != nil {
		return err
	}
	for i, row := range j.rec.rows {
		row.Ce = ce[i]
		row.Pmv = pmv[i].PMV
		row.Ppd = pmv[i].PPD
	}

	// ---- 計算結果の保存 ----

	if err := j.rec.write(out); err != nil {
		return err
	}
	logSummary(logger, j.rec.summary())
	return nil
}

// runSet computes SET only.
func runSet(cfg config.Config, inputPath string, out io.Writer, logger *slog.Logger) error {
	j, err := prepare(cfg, inputPath, logger)
	if err != nil {
		return err
	}
	if err := j.rec.writeSet(out); err != nil {
		return err
	}
	logSummary(logger, j.rec.summary())
	return nil
}

func logSummary(logger *slog.Logger, s Summary) {
	logger.Info("SET summary",
		slog.Int("count", s.Count),
		slog.Int("invalid", s.Invalid),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
	)
}

type cliFlags struct {
	input      string
	output     string
	configPath string
	units      string
	position   string
	standard   string
	workers    int
	noLimit    bool
	noRound    bool
	logLevel   string
}

// loadConfig reads the config file and applies environment and flag overrides, in that order.
func loadConfig(cmd *cobra.Command, f *cliFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("units") {
		cfg.Units = f.units
	}
	if flags.Changed("position") {
		cfg.BodyPosition = f.position
	}
	if flags.Changed("standard") {
		cfg.Standard = f.standard
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("log") {
		cfg.LogLevel = f.logLevel
	}
	if f.noLimit {
		v := false
		cfg.LimitInputs = &v
	}
	if f.noRound {
		v := false
		cfg.Round = &v
	}
	return cfg, nil
}

// execute wraps a run function with config loading, logging and output handling.
func execute(f *cliFlags, fn func(config.Config, string, io.Writer, *slog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, f)
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		out := cmd.OutOrStdout()
		if f.output != "" {
			file, err := os.Create(f.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer file.Close()
			out = file
		}

		start := time.Now()
		if err := fn(cfg, f.input, out, logger); err != nil {
			return err
		}
		logger.Info("done", slog.Duration("elapsed_time", time.Since(start)))
		return nil
	}
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "comfort_calc",
		Short: "Compute SET, cooling effect, PMV and PPD for a CSV of observations",
		Long: `comfort_calc reads observations (columns tdb, tr, v, rh, met, clo and an
optional wme) and writes the Standard Effective Temperature, the cooling effect
of elevated air speed, PMV and PPD for every row.`,
		SilenceUsage: true,
		RunE:         execute(f, run),
	}

	setCmd := &cobra.Command{
		Use:          "set",
		Short:        "Compute only the Standard Effective Temperature",
		SilenceUsage: true,
		RunE:         execute(f, runSet),
	}
	cmd.AddCommand(setCmd)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.input, "input", "i", "", "観測データCSVファイル")
	flags.StringVarP(&f.output, "output", "o", "", "出力CSVファイル (default stdout)")
	flags.StringVar(&f.configPath, "config", "", "設定ファイル (.yaml/.yml/.json)")
	flags.StringVar(&f.units, "units", "SI", "単位系 (SI | IP)")
	flags.StringVar(&f.position, "position", "standing", "姿勢 (standing | sitting | lying)")
	flags.StringVar(&f.standard, "standard", "ASHRAE", "PMVの計算規格 (ISO | ASHRAE)")
	flags.IntVar(&f.workers, "workers", 0, "並列数 (0 = 逐次)")
	flags.BoolVar(&f.noLimit, "no-limit", false, "適用範囲外の入力もそのまま計算する")
	flags.BoolVar(&f.noRound, "no-round", false, "結果を丸めない")
	flags.StringVar(&f.logLevel, "log", "info", "ログレベル (debug | info | warn | error)")
	_ = cmd.MarkPersistentFlagRequired("input")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
