package road

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limit(v float64) *float64 { return &v }

func testRoad(t *testing.T) *Road {
	t.Helper()
	r, err := NewRoad(RoadData{Sections: []Section{
		{ID: "a", Length: 100, SpeedLimit: limit(25)},
		{ID: "b", Length: 50, SpeedLimit: limit(25), Curvature: 0.002},
		{ID: "c", Length: 200, SpeedLimit: limit(15), Curvature: -0.01},
		{ID: "d", Length: 100, Stop: true},
	}})
	require.NoError(t, err)
	return r
}

func TestNewRoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data RoadData
	}{
		{"empty", RoadData{}},
		{"duplicate id", RoadData{Sections: []Section{{ID: "a", Length: 1}, {ID: "a", Length: 1}}}},
		{"zero length", RoadData{Sections: []Section{{ID: "a"}}}},
		{"zero speed limit", RoadData{Sections: []Section{{ID: "a", Length: 1, SpeedLimit: limit(0)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoad(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestSectionAt(t *testing.T) {
	r := testRoad(t)
	assert.Equal(t, 450.0, r.Length())

	s, remaining, err := r.SectionAt(0)
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID)
	assert.Equal(t, 100.0, remaining)

	s, remaining, err = r.SectionAt(100)
	require.NoError(t, err)
	assert.Equal(t, "b", s.ID)
	assert.Equal(t, 50.0, remaining)

	s, remaining, err = r.SectionAt(450)
	require.NoError(t, err)
	assert.Equal(t, "d", s.ID)
	assert.Zero(t, remaining)

	_, _, err = r.SectionAt(451)
	assert.ErrorIs(t, err, ErrOffRoad)
	_, _, err = r.SectionAt(-1)
	assert.ErrorIs(t, err, ErrOffRoad)

	got, err := r.GetSectionByID("c")
	require.NoError(t, err)
	assert.Equal(t, -0.01, got.Curvature)
	_, err = r.GetSectionByID("z")
	assert.Error(t, err)
}

func TestSpeedLimits(t *testing.T) {
	r := testRoad(t)

	v, ok, err := r.SpeedLimitAt(120)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 25.0, v)

	_, ok, err = r.SpeedLimitAt(400)
	require.NoError(t, err)
	assert.False(t, ok)

	next, dist, ok, err := r.NextSpeedLimit(20)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 15.0, next)
	assert.Equal(t, 130.0, dist)

	_, _, ok, err = r.NextSpeedLimit(200)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaxCurvatureAhead(t *testing.T) {
	r := testRoad(t)

	k, dist, err := r.MaxCurvatureAhead(0, 50)
	require.NoError(t, err)
	assert.Zero(t, k)
	assert.Zero(t, dist)

	k, dist, err = r.MaxCurvatureAhead(90, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.01, k)
	assert.Equal(t, 60.0, dist)

	k, dist, err = r.MaxCurvatureAhead(200, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.01, k)
	assert.Zero(t, dist)
}

func TestNextStop(t *testing.T) {
	r := testRoad(t)

	d, ok, err := r.NextStop(300)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 150.0, d)

	noStop, err := NewRoad(RoadData{Sections: []Section{{ID: "a", Length: 10}}})
	require.NoError(t, err)
	_, ok, err = noStop.NextStop(0)
	require.NoError(t, err)
	assert.False(t, ok)
}
