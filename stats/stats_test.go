package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestStatistic(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
		min    float64
		max    float64
	}
	cases := []tc{
		{[]int{150, 210, 180, 320, 175}, 207, 66.6708332292523, 150, 320},
		{[]int{-120, 0, 450}, 110, 300.4995840262763, -120, 450},
		{[]int{200}, 200, 0, 200, 200},
		{[]int{}, 0, 0, 0, 0},
		{[]int{150, 150}, 150, 0, 150, 150},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.True(FuzzyEqual(s.Min(), c.min))
		is.True(FuzzyEqual(s.Max(), c.max))
		is.Equal(s.Count(), len(c.scores))
	}
}

func TestLast(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	s.Push(10)
	s.Push(-30)
	is.Equal(s.Last(), -30.0)
}
