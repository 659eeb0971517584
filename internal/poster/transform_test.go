package poster

import (
	"math"
	"testing"

	"github.com/wxrelay/wxrelay/internal/wx"
)

func TestNewTransformer_Identity(t *testing.T) {
	tr, err := NewTransformer("")
	if err != nil {
		t.Fatalf("NewTransformer(\"\"): %v", err)
	}
	in := wx.Record{Units: wx.US, Values: map[string]float64{"outTemp": 72.34}}
	out := tr.Apply(in)
	if out.Units != wx.US || out.Values["outTemp"] != 72.34 {
		t.Errorf("identity transform changed record: %+v", out)
	}
}

func TestNewTransformer_Converts(t *testing.T) {
	tr, err := NewTransformer("metricwx")
	if err != nil {
		t.Fatalf("NewTransformer(metricwx): %v", err)
	}
	out := tr.Apply(wx.Record{Units: wx.US, Values: map[string]float64{"outTemp": 72.34}})
	if out.Units != wx.MetricWX {
		t.Errorf("Units = %v, want MetricWX", out.Units)
	}
	if got := out.Values["outTemp"]; math.Abs(got-22.4111111) > 1e-6 {
		t.Errorf("outTemp = %v, want ~22.41", got)
	}
}

func TestNewTransformer_InvalidUnit(t *testing.T) {
	if _, err := NewTransformer("FURLONGS"); err == nil {
		t.Fatal("want error for unknown unit system")
	}
}
