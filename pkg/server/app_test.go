package server

import (
	"context"
	"errors"
	"testing"

	xhttp "BaseballMVP/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunContextClosesResourcesInOrder(t *testing.T) {
	var order []string
	closer := func(name string, err error) CloserFunc {
		return func() error {
			order = append(order, name)
			return err
		}
	}

	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetrics(false, "", 0))
	app := New(nil, srv,
		WithCloser("pipeline", closer("pipeline", nil)),
		WithCloser("producer", closer("producer", errors.New("flush failed"))),
		WithCloser("skipped", nil),
		WithCloser("clickhouse", closer("clickhouse", nil)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, []string{"pipeline", "producer", "clickhouse"}, order)
}
