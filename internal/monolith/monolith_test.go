package monolith

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/di"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

type stubModule struct {
	name     string
	startErr error
	trace    *[]string
}

func (m stubModule) Name() string { return m.name }

func (m stubModule) RegisterServices(c di.Container) error {
	*m.trace = append(*m.trace, "register "+m.name)
	return nil
}

func (m stubModule) Startup(_ context.Context, mono Monolith) error {
	*m.trace = append(*m.trace, "start "+m.name)
	mono.OnClose(func() error {
		*m.trace = append(*m.trace, "close "+m.name)
		return nil
	})
	return m.startErr
}

func TestApp_Lifecycle(t *testing.T) {
	var trace []string
	app := New(&config.Config{}, logger.NewNop(), nil)

	require.NoError(t, app.Register(
		stubModule{name: "market", trace: &trace},
		stubModule{name: "pool", trace: &trace},
	))
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Close())

	require.Equal(t, []string{
		"register market", "register pool",
		"start market", "start pool",
		"close pool", "close market",
	}, trace)
	require.NotNil(t, app.Services().Get("config"))
}

func TestApp_StartErrorNamesModule(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	app := New(&config.Config{}, logger.NewNop(), nil)

	require.NoError(t, app.Register(
		stubModule{name: "market", startErr: boom, trace: &trace},
		stubModule{name: "pool", trace: &trace},
	))
	err := app.Start(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "start market")
	require.NotContains(t, trace, "start pool")
}

func TestApp_CloseJoinsErrors(t *testing.T) {
	app := New(&config.Config{}, logger.NewNop(), nil)
	e1, e2 := errors.New("one"), errors.New("two")
	app.OnClose(func() error { return e1 })
	app.OnClose(func() error { return e2 })

	err := app.Close()
	require.ErrorIs(t, err, e1)
	require.ErrorIs(t, err, e2)
	require.NoError(t, app.Close())
}
