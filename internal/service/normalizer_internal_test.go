package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTask(t *testing.T) {
	mockRepo := mocks.NewInterface(t)
	mockResolver := mocks.NewResolver(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	reg := prometheus.NewRegistry()
	metrics := metrics.NewMetrics(reg)
	ctx := t.Context()
	service := NewNormalizerService(logger, mockRepo, mockResolver, "codec", metrics, 2, 1*time.Second)

	paris, err := geo.NewCoordinate(48.8566, 2.3522)
	require.NoError(t, err)
	parisUTM, err := paris.UTMString()
	require.NoError(t, err)
	parisLoc := models.NormalizedLocation{
		Latitude:  paris.Latitude(),
		Longitude: paris.Longitude(),
		EWKT:      paris.PostGIS(),
		UTM:       parisUTM,
	}

	t.Run("successfull processing", func(t *testing.T) {
		sampleTasks := []models.Task{{ID: 1, RawText: "48.8566;2.3522"}}

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "48.8566;2.3522").Return(paris, nil).Once()
		mockRepo.On("UpdateTaskLocation", ctx, 1, parisLoc).Return(nil).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("fetch tasks return error", func(t *testing.T) {
		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(nil, assert.AnError).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("fetch tasks return empty list", func(t *testing.T) {
		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return([]models.Task{}, nil).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("resolver returns error", func(t *testing.T) {
		sampleTasks := []models.Task{{ID: 2, RawText: "not a coordinate"}}
		resolveErr := errors.New("resolution failed")

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "not a coordinate").Return(geo.Coordinate{}, resolveErr).Once()
		mockRepo.On("IncrementFailureCount", ctx, 2, resolveErr.Error()).Return(nil).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("malformed input counts a parse failure", func(t *testing.T) {
		sampleTasks := []models.Task{{ID: 3, RawText: "POINT(x y)"}}
		parseErr := &geo.MalformedInputError{Format: geo.FormatWKT, Input: "POINT(x y)", Reason: "invalid number"}

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "POINT(x y)").Return(geo.Coordinate{}, parseErr).Once()
		mockRepo.On("IncrementFailureCount", ctx, 3, parseErr.Error()).Return(nil).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("error to increment failure count", func(t *testing.T) {
		sampleTasks := []models.Task{{ID: 2, RawText: "not a coordinate"}}
		resolveErr := errors.New("resolution failed")

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "not a coordinate").Return(geo.Coordinate{}, resolveErr).Once()
		mockRepo.On("IncrementFailureCount", ctx, 2, resolveErr.Error()).Return(assert.AnError).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("error to update task location", func(t *testing.T) {
		sampleTasks := []models.Task{{ID: 1, RawText: "48.8566;2.3522"}}

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "48.8566;2.3522").Return(paris, nil).Once()
		mockRepo.On("UpdateTaskLocation", ctx, 1, parisLoc).Return(assert.AnError).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("polar coordinate is stored without a grid reference", func(t *testing.T) {
		arctic, cErr := geo.NewCoordinate(89, 0)
		require.NoError(t, cErr)
		arcticLoc := models.NormalizedLocation{
			Latitude:  arctic.Latitude(),
			Longitude: arctic.Longitude(),
			EWKT:      arctic.PostGIS(),
			UTM:       "",
		}
		sampleTasks := []models.Task{{ID: 4, RawText: "89;0"}}

		mockRepo.On("FetchTasksForNormalization", ctx, 100).Return(sampleTasks, nil).Once()
		mockResolver.On("Resolve", ctx, "89;0").Return(arctic, nil).Once()
		mockRepo.On("UpdateTaskLocation", ctx, 4, arcticLoc).Return(nil).Once()

		service.processTask(ctx)

		mockRepo.AssertExpectations(t)
		mockResolver.AssertExpectations(t)
	})

	t.Run("start context cancelled", func(t *testing.T) {
		tctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		service.Run(tctx)
	})
}
