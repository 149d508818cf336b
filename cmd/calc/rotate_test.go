package main

import (
	"math"
	"testing"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/parse"
)

func TestRotate(t *testing.T) {
	e := parse.MustParse("x + 2*y")
	theta := parse.MustParse("pi/2")
	p := expr.At(0.3, 0.8, 0.1)
	vs := []struct {
		plane, axis string
		want        float64
	}{
		{plane: "x,y", want: 0.8 - 2*0.3},
		{plane: "y, x", want: -0.8 + 2*0.3},
		{plane: "x,z", axis: "z", want: 0.8 - 2*0.3},
		{axis: "x", want: 0.3 + 2*0.1},
		{axis: "0, 0, 3", want: 0.8 - 2*0.3},
		{axis: "1,0,0", want: 0.3 + 2*0.1},
	}
	for i, v := range vs {
		r, err := rotate(e, theta, v.plane, v.axis)
		if err != nil {
			t.Fatalf("[%d] %v", i, err)
		}
		got, err := expr.Evaluate(r, p)
		if err != nil {
			t.Fatalf("[%d] %v: %v", i, r, err)
		}
		if math.Abs(got-v.want) > 1e-12 {
			t.Errorf("[%d] plane=%q axis=%q: got=%v (%v), want=%v", i, v.plane, v.axis, got, r, v.want)
		}
	}

	bad := []struct {
		plane, axis string
	}{
		{plane: "x"},
		{plane: "x,y,z"},
		{plane: "x,q"},
		{plane: "x,x"},
		{axis: "w"},
		{axis: "1,0"},
		{axis: "1,a,0"},
		{axis: "0,0,0"},
		{axis: "x_3"},
	}
	for i, v := range bad {
		if r, err := rotate(e, theta, v.plane, v.axis); err == nil {
			t.Errorf("[%d] plane=%q axis=%q: got=%v, want error", i, v.plane, v.axis, r)
		}
	}
}
