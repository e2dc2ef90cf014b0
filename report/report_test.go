package report

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invertedv/transit/analysis"
	"github.com/invertedv/transit/config"
	"github.com/invertedv/transit/ntd"
	"github.com/invertedv/transit/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$171.16", Money(171.1619))
	assert.Equal(t, "$1,234.50", Money(1234.5))
	assert.Equal(t, "-$5.00", Money(-5))
	assert.Equal(t, "n/a", Money(math.NaN()))
	assert.Equal(t, "n/a", Money(math.Inf(1)))

	assert.Equal(t, "0.055", Ratio(0.054743))
	assert.Equal(t, "n/a", Ratio(math.NaN()))

	assert.Equal(t, "3.0%", Percent(0.03))
}

func TestWrite(t *testing.T) {
	cfg, e := config.Load(filepath.Join("..", "testdata", "config.yaml"))
	require.Nil(t, e)

	in, e := source.Load(cfg.Source, cfg.Year, zaptest.NewLogger(t))
	require.Nil(t, e)

	res, e := analysis.Run(cfg, in, zaptest.NewLogger(t))
	require.Nil(t, e)

	var buf bytes.Buffer
	require.Nil(t, Write(&buf, res))
	out := buf.String()

	for _, want := range []string{
		res.RunID,
		"Bus rapid transit (mode RB, status Active)",
		"national cost per vehicle revenue hour: $171.16",
		"peer cost per vehicle revenue hour:     $174.72 (4 services)",
		"Published estimates (deflated at 3.0% a year)",
		"Elevated option",
		"$174.85",
		"Rail (mode HR)",
		"cost per train hour is less dispersed than cost per car hour",
		"Regression",
		"train_revenue_hours",
	} {
		assert.Contains(t, out, want)
	}

	assert.Equal(t, res.BRT.PeerCount+countRailPeers(res), strings.Count(out, "yes"))
}

func TestWrite_Empty(t *testing.T) {
	res := &analysis.Results{
		RunID: "r1",
		Year:  2022,
		BRT:   analysis.BRTResults{Mode: "RB", Status: "Active", National: math.NaN(), Peer: math.NaN(), CV: math.NaN()},
		Rail:  analysis.RailResults{Mode: "HR", PeerTrainHourCost: math.NaN()},
	}

	var buf bytes.Buffer
	require.Nil(t, Write(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "NTD 2022 revenue-hour costs (run r1)")
	assert.Contains(t, out, "national cost per vehicle revenue hour: n/a")
	assert.NotContains(t, out, "Published estimates")
	assert.NotContains(t, out, "Regression")
	assert.Contains(t, out, "is not less dispersed")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWrite_Error(t *testing.T) {
	res := &analysis.Results{BRT: analysis.BRTResults{Agencies: []ntd.AgencyCost{{AgencyName: "a"}}}}
	assert.EqualError(t, Write(failWriter{}, res), "closed")
}

func countRailPeers(res *analysis.Results) int {
	n := 0
	for _, s := range res.Rail.Services {
		if s.Peer {
			n++
		}
	}

	return n
}
