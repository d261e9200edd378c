package dto

import "testing"

func TestPageParamsNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   PageParams
		want PageParams
	}{
		{"defaults applied", PageParams{}, PageParams{Limit: 20, Offset: 0}},
		{"negative limit", PageParams{Limit: -5, Offset: 10}, PageParams{Limit: 20, Offset: 10}},
		{"limit capped", PageParams{Limit: 500}, PageParams{Limit: 100}},
		{"negative offset", PageParams{Limit: 10, Offset: -1}, PageParams{Limit: 10, Offset: 0}},
		{"in range untouched", PageParams{Limit: 50, Offset: 100}, PageParams{Limit: 50, Offset: 100}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.in.Normalize(); got != c.want {
				t.Errorf("Normalize(%+v) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestNextOffsetEndsScrollOnShortPage(t *testing.T) {
	p := PageParams{Limit: 20, Offset: 40}

	if got := p.NextOffset(20); got != 60 {
		t.Errorf("full page next offset = %d, want 60", got)
	}
	if got := p.NextOffset(7); got != -1 {
		t.Errorf("short page next offset = %d, want -1", got)
	}
	if got := p.NextOffset(0); got != -1 {
		t.Errorf("empty page next offset = %d, want -1", got)
	}
}
