// wtm-train trains a Weighted Tsetlin Machine classifier on one of the
// built-in experiments, logging per-epoch accuracy on a validation
// subsample and the full test set, and optionally resumes from or writes
// a checkpoint (spec section 6 "CLI surface").
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/wtm"
	"github.com/mewkiz/wtm/automaton"
	"github.com/mewkiz/wtm/checkpoint"
	"github.com/mewkiz/wtm/dataset"
	"github.com/mewkiz/wtm/internal/prng"
	"github.com/mewkiz/wtm/internal/wtmerr"
)

// experimentDefaults holds the hyperparameter defaults for one of the
// built-in datasets, taken from the reference driver's experiment table.
type experimentDefaults struct {
	clauses   int
	p         float64
	gamma     float64
	threshold int
	epochs    int
}

var experiments = map[string]experimentDefaults{
	"mnist":    {clauses: 2000, p: 0.15, gamma: 0.05, threshold: 50, epochs: 250},
	"connect4": {clauses: 800, p: 0.1, gamma: 0.1, threshold: 40, epochs: 100},
	"imdb":     {clauses: 2000, p: 0.05, gamma: 0.15, threshold: 50, epochs: 100},
}

var (
	flagExperiment string
	flagClauses    int
	flagP          float64
	flagThreshold  int
	flagGamma      float64
	flagEpochs     int
	flagSeed       int64
	flagShuffle    string
	flagResume     string
	flagWrite      string
)

func init() {
	flag.StringVar(&flagExperiment, "x", "mnist", "experiment to run (mnist, connect4, imdb)")
	flag.IntVar(&flagClauses, "c", 0, "clause count (0 uses the experiment default)")
	flag.Float64Var(&flagP, "p", 0, "setter feedback probability (0 uses the experiment default)")
	flag.IntVar(&flagThreshold, "t", 0, "voting threshold (0 uses the experiment default)")
	flag.Float64Var(&flagGamma, "g", 0, "weight learning rate (0 uses the experiment default)")
	flag.IntVar(&flagEpochs, "e", 0, "epoch count (0 uses the experiment default)")
	flag.Int64Var(&flagSeed, "n", 0, "PRNG seed (0 uses the wall-clock time)")
	flag.StringVar(&flagShuffle, "s", "1", "shuffle sample order each epoch (0/false to disable)")
	flag.StringVar(&flagResume, "r", "0", "resume from an existing checkpoint (0/false to disable)")
	flag.StringVar(&flagWrite, "w", "0", "write a checkpoint at the end of the run (0/false to disable)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: wtm-train [OPTION]...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		if errors.Is(err, wtmerr.ErrMalformedSample) {
			log.Printf("%+v", err)
			os.Exit(2)
		}
		log.Fatalf("%+v", err)
	}
}

// boolish reproduces the reference CLI's loose boolean parsing: "0" or
// "false" (any case) means off, anything else means on.
func boolish(s string) bool {
	return s != "0" && s != "false" && s != "False" && s != "FALSE"
}

func run() error {
	defaults, ok := experiments[flagExperiment]
	if !ok {
		return errors.Errorf("unknown experiment %q", flagExperiment)
	}

	clauses := defaults.clauses
	if flagClauses != 0 {
		clauses = flagClauses
	}
	p := defaults.p
	if flagP != 0 {
		p = flagP
	}
	gamma := defaults.gamma
	if flagGamma != 0 {
		gamma = flagGamma
	}
	threshold := defaults.threshold
	if flagThreshold != 0 {
		threshold = flagThreshold
	}
	epochs := defaults.epochs
	if flagEpochs != 0 {
		epochs = flagEpochs
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	shuffle := boolish(flagShuffle)
	resume := boolish(flagResume)
	write := boolish(flagWrite)

	start := time.Now()

	train, test, classes, err := dataset.LoadExperiment(flagExperiment)
	if err != nil {
		return errors.Wrap(err, "loading dataset")
	}
	validation := dataset.ReservoirSplit(test, len(test.X)/4, prng.New(uint64(seed)))

	hp := automaton.Hyperparameters{
		Features:  train.Features,
		Clauses:   clauses,
		P:         p,
		Gamma:     gamma,
		Threshold: threshold,
		StateBits: automaton.DefaultStateBits,
	}

	path := checkpoint.Path(flagExperiment, hp)
	mc, err := loadOrCreate(hp, classes, seed, path, resume)
	if err != nil {
		return err
	}

	fmt.Printf("samples=%dK - features=%d, clauses=%d, p=%.4f, gamma=%.4f, threshold=%d\n",
		len(train.X)/1000, hp.Features, hp.Clauses, hp.P, hp.Gamma, hp.Threshold)

	for mc.Epoch() < epochs {
		t0 := time.Now()
		mc.TrainEpoch(train.X, train.Y, shuffle)
		t1 := time.Now()
		testAcc := mc.Accuracy(test.X, test.Y)
		t2 := time.Now()
		valAcc := mc.Accuracy(validation.X, validation.Y)

		fmt.Printf("epoch %03d of training and testing - %s and %s - %6.2f%% and %6.2f%%\n",
			mc.Epoch(), t1.Sub(t0).Round(time.Second), t2.Sub(t1).Round(time.Second),
			100*valAcc, 100*testAcc)
	}

	if write {
		if err := writeCheckpoint(path, mc); err != nil {
			return errors.Wrap(err, "writing checkpoint")
		}
	}

	fmt.Printf("total time: %s\n", time.Since(start).Round(time.Second))
	return nil
}

func loadOrCreate(hp automaton.Hyperparameters, classes int, seed int64, path string, resume bool) (*wtm.MultiClassMachine, error) {
	if resume {
		exists, err := osutil.Exists(path)
		if err != nil {
			return nil, errors.Wrapf(err, "checking for checkpoint %s", path)
		}
		if exists {
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.Wrapf(err, "opening checkpoint %s", path)
			}
			defer f.Close()
			mc, err := checkpoint.Load(f)
			if err != nil {
				return nil, errors.Wrapf(err, "loading checkpoint %s", path)
			}
			if err := checkpoint.CheckCompatible(mc, hp.Features, classes); err != nil {
				return nil, err
			}
			fmt.Printf("continuing at epoch %d\n", mc.Epoch()+1)
			return mc, nil
		}
	}
	return wtm.New(hp, classes, uint64(seed))
}

func writeCheckpoint(path string, mc *wtm.MultiClassMachine) error {
	if err := os.MkdirAll("results", 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return checkpoint.Save(f, mc)
}
