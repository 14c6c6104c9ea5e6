package metric

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotPatterns renders the probe pattern against a reconstructed observed
// pattern as two lines over the interval index, for eyeballing why a process
// did or did not correlate.
func PlotPatterns(probe, observed []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "interval"
	p.Y.Label.Text = "normalized sample"

	err := plotutil.AddLinePoints(p,
		"probe", toXYs(probe),
		"observed", toXYs(observed),
	)
	if err != nil {
		return fmt.Errorf("adding pattern lines: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}

	return nil
}

func toXYs(samples []float64) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = float64(i)
		pts[i].Y = s
	}
	return pts
}
