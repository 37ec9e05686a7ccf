package figure

import (
	"strings"
	"testing"
)

func TestNewAssignsIDAndDefaults(t *testing.T) {
	a := New("a", KindBox, "A")
	b := New("b", KindBox, "B")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not unique: %q %q", a.ID, b.ID)
	}
	w, h := a.Size()
	if w != DefaultWidthIn || h != DefaultHeightIn {
		t.Fatalf("size = %vx%v", w, h)
	}
}

func TestAddSeriesCyclesPalette(t *testing.T) {
	f := New("bars", KindGroupedBar, "Bars")
	f.Categories = []string{"x"}
	f.AddSeries(Series{Name: "one", Values: []float64{1}})
	f.AddSeries(Series{Name: "two", Values: []float64{2}, Color: "#000000"})
	f.AddSeries(Series{Name: "three", Values: []float64{3}})
	if f.Series[0].Color != Palette[0] {
		t.Fatalf("first color = %q", f.Series[0].Color)
	}
	if f.Series[1].Color != "#000000" {
		t.Fatalf("explicit color overwritten: %q", f.Series[1].Color)
	}
	if f.Series[2].Color != Palette[2] {
		t.Fatalf("third color = %q", f.Series[2].Color)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsShapeMismatch(t *testing.T) {
	f := New("bars", KindStackedBar, "Bars")
	f.Categories = []string{"0", "1"}
	f.AddSeries(Series{Name: "Approved", Values: []float64{100}})
	err := f.Validate()
	if err == nil || !strings.Contains(err.Error(), "1 values for 2 categories") {
		t.Fatalf("err = %v", err)
	}

	d := New("kde", KindDensity, "KDE")
	d.AddSeries(Series{Name: "s", X: []float64{1, 2}, Y: []float64{1}})
	if err := d.Validate(); err == nil {
		t.Fatalf("expected malformed curve error")
	}

	box := New("box", KindBox, "Box")
	box.Categories = []string{"a"}
	box.AddSeries(Series{Name: "a"})
	if err := box.Validate(); err == nil {
		t.Fatalf("expected missing box stats error")
	}
}
