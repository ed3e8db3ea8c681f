package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skycloud/config"
	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/factory"
	coremetrics "github.com/kilianp07/skycloud/core/metrics"
	"github.com/kilianp07/skycloud/core/model"
	coremqtt "github.com/kilianp07/skycloud/core/mqtt"
	"github.com/kilianp07/skycloud/infra/clouddb"
)

type memPublisher struct {
	topics []string
	msgs   []coremqtt.CoverageMessage
	closed bool
}

func (m *memPublisher) PublishCoverage(topic string, msg coremqtt.CoverageMessage) (string, error) {
	m.topics = append(m.topics, topic)
	m.msgs = append(m.msgs, msg)
	return "id", nil
}

func (m *memPublisher) Disconnect() { m.closed = true }

type closingSource struct {
	cloud.StaticSource
	closed bool
}

func (c *closingSource) Close() { c.closed = true }

type closingRecorder struct {
	coremetrics.NopRecorder
	closed bool
}

func (c *closingRecorder) Close() error {
	c.closed = true
	return nil
}

func TestCloseReleasesSourceAndRecorder(t *testing.T) {
	src := &closingSource{StaticSource: cloud.StaticSource{Samples: []model.Sample{{Date: 0, Value: 0.25}, {Date: 10, Value: 0.5}}}}
	rec := &closingRecorder{}
	require.NoError(t, cloud.RegisterSource("closing-test", func(map[string]any) (cloud.Source, error) { return src, nil }))
	require.NoError(t, coremetrics.RegisterRecorder("closing-test", func(map[string]any) (coremetrics.Recorder, error) { return rec, nil }))

	cfg := config.Default()
	cfg.Source = factory.ModuleConfig{Type: "closing-test"}
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "closing-test"}}
	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, src.closed)

	require.NoError(t, svc.Close())
	assert.True(t, src.closed)
	assert.True(t, rec.closed)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloud.db")
	require.NoError(t, clouddb.CreateTable(context.Background(), path, []model.Sample{
		{Date: 10342, Value: 0.125},
		{Date: 9997, Value: 0.5},
	}))
	cfg := config.Default()
	cfg.Source = factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": path}}
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Publish.Topic = "sky/cloud"
	cfg.Publish.MapSize = 3
	return cfg
}

func TestNewLoadsSeries(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	assert.Equal(t, 2, svc.Resolver.Series().Len())
	v, err := svc.Resolver.Resolve(200)
	require.NoError(t, err)
	assert.Equal(t, 0.125, v)
	cols, _ := svc.Model.EFDRequirements()
	assert.Equal(t, []string{"cloud"}, cols)
}

func TestNewFailsOnMissingStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Conf["path"] = filepath.Join(t.TempDir(), "missing.db")
	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, cloud.ErrDataSource)

	cfg.Source = factory.ModuleConfig{Type: "unknown"}
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestPublishOnce(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.PublishOnce(0), coremqtt.ErrNotConnected)

	pub := &memPublisher{}
	svc.SetPublisher(pub)
	require.NoError(t, svc.PublishOnce(200))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "sky/cloud", pub.topics[0])
	assert.Equal(t, int64(200), pub.msgs[0].Delta)
	assert.Equal(t, 0.125, pub.msgs[0].Coverage)
	assert.Equal(t, []float64{0.125, 0.125, 0.125}, pub.msgs[0].Map)

	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publish.Enabled = true
	cfg.Publish.IntervalSeconds = 1
	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	pub := &memPublisher{}
	svc.SetPublisher(pub)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, svc.Run(ctx))
	assert.NotEmpty(t, pub.msgs)
}
