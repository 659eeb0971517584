package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/wxrelay/wxrelay/internal/config"
	"github.com/wxrelay/wxrelay/internal/wx"
)

const sampleTimeout = 10 * time.Second

// Poller samples a Prometheus exposition endpoint on a fixed interval and
// hands each resulting record to sink.
type Poller struct {
	cfg    config.SourceConfig
	units  wx.System
	client *http.Client
	sink   func(wx.Record)
	log    *slog.Logger
}

// New builds a Poller from cfg. The configured unit system must be valid.
func New(cfg config.SourceConfig, sink func(wx.Record), log *slog.Logger) (*Poller, error) {
	units, err := wx.ParseSystem(cfg.UnitSystem)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &Poller{
		cfg:    cfg,
		units:  units,
		client: &http.Client{Timeout: sampleTimeout},
		sink:   sink,
		log:    log,
	}, nil
}

// Run polls the endpoint every sample interval until ctx is cancelled.
// Sample errors are logged and skipped; no record is emitted for them.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("source poller started",
		"endpoint", p.cfg.Endpoint, "interval", p.cfg.SampleInterval)

	ticker := time.NewTicker(p.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("source poller stopped")
			return
		case <-ticker.C:
			rec, err := p.sample(ctx)
			if err != nil {
				p.log.Warn("sample failed", "endpoint", p.cfg.Endpoint, "err", err)
				continue
			}
			p.sink(rec)
		}
	}
}

// sample fetches the exposition once and builds a record from the
// configured metrics. Metrics absent from the exposition are omitted from
// the record, matching a station that produced no reading.
func (p *Poller) sample(ctx context.Context) (wx.Record, error) {
	mfs, err := fetchMetrics(ctx, p.client, p.cfg.Endpoint)
	if err != nil {
		return wx.Record{}, err
	}

	values := make(map[string]float64, len(p.cfg.Fields))
	for field, metric := range p.cfg.Fields {
		mf, ok := mfs[metric]
		if !ok {
			continue
		}
		v, ok := firstValue(mf)
		if !ok {
			continue
		}
		values[field] = v
	}

	return wx.Record{Time: time.Now(), Units: p.units, Values: values}, nil
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r. A partial
// result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// firstValue extracts the gauge, counter or untyped value of the family's
// first sample. Station sensor metrics carry a single unlabelled series.
func firstValue(mf *dto.MetricFamily) (float64, bool) {
	ms := mf.GetMetric()
	if len(ms) == 0 {
		return 0, false
	}
	m := ms[0]
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue(), true
	case m.Counter != nil:
		return m.Counter.GetValue(), true
	case m.Untyped != nil:
		return m.Untyped.GetValue(), true
	}
	return 0, false
}
