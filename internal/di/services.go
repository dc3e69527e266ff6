package di

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/config"
	"github.com/aristath/qae/internal/modules/autoencoder"
	"github.com/aristath/qae/internal/modules/hydrogen"
	"github.com/aristath/qae/internal/modules/optimization"
	"github.com/aristath/qae/internal/modules/quantum"
)

// InitializeServices builds the data, circuit, optimizer and training services
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	ac := cfg.Autoencoder
	seed := ac.ResolveSeed(time.Now())
	log.Info().Uint64("seed", seed).Msg("Using seed")

	dataset, err := loadDataset(ac.DatasetPath)
	if err != nil {
		return err
	}

	train, test, err := dataset.Split(ac.TrainFraction, rand.NewPCG(seed, 0))
	if err != nil {
		return fmt.Errorf("failed to split dataset: %w", err)
	}
	container.TrainSet = train
	container.TestSet = test
	container.Factory = hydrogen.NewFactory()

	// The circuit is trained on the first training sample
	input, err := container.Factory.ProduceState(train.Samples[0].Coefficients)
	if err != nil {
		return fmt.Errorf("failed to produce input state: %w", err)
	}

	circuit, err := quantum.NewCircuit(ac.NumRef, input)
	if err != nil {
		return fmt.Errorf("failed to create circuit: %w", err)
	}
	container.Circuit = circuit

	optimizer, err := optimization.NewBasinHopping(ac.OptimizerSettings(), log)
	if err != nil {
		return fmt.Errorf("failed to create optimizer: %w", err)
	}
	container.Optimizer = optimizer

	ae, err := autoencoder.New(circuit, optimizer, autoencoder.Settings{
		Rounds:       ac.Rounds,
		CostMode:     ac.CostMode,
		RoundTimeout: ac.RoundTimeout,
	}, rand.NewPCG(seed, 1), log)
	if err != nil {
		return fmt.Errorf("failed to create autoencoder: %w", err)
	}
	container.Autoencoder = ae

	testStates, err := test.States(container.Factory)
	if err != nil {
		return fmt.Errorf("failed to produce test states: %w", err)
	}

	container.RunRepo = autoencoder.NewRunRepository(container.AutoencoderDB.Conn(), log)

	service, err := autoencoder.NewService(ae, container.RunRepo, testStates, log)
	if err != nil {
		return fmt.Errorf("failed to create autoencoder service: %w", err)
	}
	container.AutoencoderService = service

	log.Info().
		Int("train_samples", len(train.Samples)).
		Int("test_samples", len(test.Samples)).
		Int("num_ref", ac.NumRef).
		Str("cost_mode", string(ac.CostMode)).
		Msg("Services initialized")

	return nil
}

func loadDataset(path string) (hydrogen.Dataset, error) {
	if path == "" {
		return hydrogen.DefaultDataset(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return hydrogen.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	dataset, err := hydrogen.LoadDataset(f)
	if err != nil {
		return hydrogen.Dataset{}, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return dataset, nil
}
