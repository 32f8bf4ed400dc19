package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerExecutesStagesInOrder(t *testing.T) {
	var order []string
	runner := NewRunner(nil)
	for _, id := range []string{"load", "clean", "transform", "aggregate"} {
		id := id
		runner.Add(Stage{ID: id, Name: id, Run: func(ctx context.Context) error {
			order = append(order, id)
			return nil
		}})
	}

	results, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"load", "clean", "transform", "aggregate"}, order)
	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, order[i], result.ID)
		assert.NoError(t, result.Err)
	}
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	stageErr := errors.New("bad input")
	ran := make(map[string]bool)

	runner := NewRunner(nil)
	runner.Add(Stage{ID: "load", Name: "Load", Run: func(ctx context.Context) error {
		ran["load"] = true
		return nil
	}})
	runner.Add(Stage{ID: "clean", Name: "Clean", Run: func(ctx context.Context) error {
		ran["clean"] = true
		return stageErr
	}})
	runner.Add(Stage{ID: "aggregate", Name: "Aggregate", Run: func(ctx context.Context) error {
		ran["aggregate"] = true
		return nil
	}})

	results, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, stageErr)
	assert.Contains(t, err.Error(), "stage clean")

	assert.True(t, ran["load"])
	assert.True(t, ran["clean"])
	assert.False(t, ran["aggregate"], "stages after a failure never run")

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, stageErr)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runner := NewRunner(nil)
	runner.Add(Stage{ID: "load", Name: "Load", Run: func(ctx context.Context) error {
		cancel() // cancel mid-run; the next stage must not start
		return nil
	}})
	ran := false
	runner.Add(Stage{ID: "clean", Name: "Clean", Run: func(ctx context.Context) error {
		ran = true
		return nil
	}})

	results, err := runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
	assert.Len(t, results, 1)
}

func TestRunnerNoStages(t *testing.T) {
	results, err := NewRunner(nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}
