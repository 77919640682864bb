package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/undangan-next/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "http", startErr: errors.New("listen failed")}
	blocking := &fakeService{name: "worker", block: true}
	runner := NewRunner(failing, blocking)

	err := runner.Run(context.Background(), time.Second, nil)
	require.EqualError(t, err, "listen failed")
	assert.True(t, failing.stopped.Load())
	assert.True(t, blocking.stopped.Load())
}

func TestRunnerCanceledContextReturnsNil(t *testing.T) {
	svc := &fakeService{name: "http", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, NewRunner(svc).Run(ctx, time.Second, nil))
	assert.True(t, svc.stopped.Load())
}

func TestRunnerNames(t *testing.T) {
	runner := NewRunner(&fakeService{name: "http"}, nil, &fakeService{name: "worker"})
	assert.Equal(t, []string{"http", "worker"}, runner.Names())
	assert.Error(t, NewRunner().Run(context.Background(), time.Second, nil))
}

func TestBuildRunnerRejectsInvalidMode(t *testing.T) {
	_, _, err := BuildRunner(&config.Config{}, "cron")
	assert.Error(t, err)

	_, _, err = BuildRunner(&config.Config{}, ModeWorker)
	assert.ErrorIs(t, err, ErrQueueRequired)

	assert.True(t, ValidMode(ModeAPI))
	assert.False(t, ValidMode(""))
}
