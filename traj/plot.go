package traj

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//PlotSeries draws one or more per-frame series against the frame number
//and saves the plot to name. The image format is taken from the extension
//of name. labels must have one entry per series.
func PlotSeries(name, title, ylabel string, labels []string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	if len(labels) != len(series) {
		return fmt.Errorf("%d labels for %d series", len(labels), len(series))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	for i, s := range series {
		pts := make(plotter.XYs, len(s))
		for j, v := range s {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %s: %w", labels[i], err)
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(labels[i], l)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}

//PlotRMSD plots the RMSD of each frame against the first one.
func PlotRMSD(name string, rmsd Series) error {
	return PlotSeries(name, "RMSD to the first frame", "RMSD (A)", []string{"RMSD"}, rmsd)
}
