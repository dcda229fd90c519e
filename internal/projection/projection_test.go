package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nicemap/internal/ranking"
)

func TestTransform_Origin(t *testing.T) {
	lat, lon, err := NewWebMercator().Transform(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lon)
}

func TestTransform_KnownCities(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		lat, lo float64
	}{
		{"paris", 261845.71, 6250564.35, 48.8566, 2.3522},
		{"tokyo", 15550408.91, 4257980.73, 35.6895, 139.6917},
		{"rio", -4805985.24, -2620751.56, -22.9068, -43.1729},
		{"quebec", -7926838.3, 5911750.54, 46.8139, -71.2080},
	}

	wm := NewWebMercator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := wm.Transform(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, lat, 1e-6)
			assert.InDelta(t, tt.lo, lon, 1e-6)
		})
	}
}

func TestTransform_Extent(t *testing.T) {
	wm := NewWebMercator()

	lat, lon, err := wm.Transform(MaxEasting, 0)
	require.NoError(t, err)
	assert.Equal(t, 180.0, lon)
	assert.Equal(t, 0.0, lat)

	lat, lon, err = wm.Transform(-MaxEasting, 0)
	require.NoError(t, err)
	assert.Equal(t, -180.0, lon)
	assert.Equal(t, 0.0, lat)

	// Web Mercator's square extent tops out near 85.0511 degrees.
	lat, _, err = wm.Transform(0, MaxEasting)
	require.NoError(t, err)
	assert.InDelta(t, 85.0511287798, lat, 1e-9)
}

func TestTransform_OutOfDomain(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
	}{
		{"east of antimeridian", MaxEasting + 1, 0},
		{"west of antimeridian", -MaxEasting - 1, 0},
		{"north of extent", 0, MaxNorthing + 1},
		{"south of extent", 0, -MaxNorthing - 1},
		{"nan", math.NaN(), 0},
		{"inf", 0, math.Inf(1)},
	}

	wm := NewWebMercator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := wm.Transform(tt.x, tt.y)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCoordinateTransform))

			var te *TransformError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, -1, te.Index)
		})
	}
}

func TestTransform_CornersStayInRange(t *testing.T) {
	wm := NewWebMercator()

	for _, x := range []float64{-MaxEasting, MaxEasting} {
		for _, y := range []float64{-MaxNorthing, MaxNorthing} {
			lat, lon, err := wm.Transform(x, y)
			require.NoError(t, err)
			assert.Equal(t, math.Copysign(180, x), lon)
			assert.LessOrEqual(t, math.Abs(lat), 90.0)
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 180.0, clamp(180.00000000000003, 180))
	assert.Equal(t, -180.0, clamp(-180.00000000000003, 180))
	assert.Equal(t, 12.5, clamp(12.5, 180))
}

func TestTransform_OutputWithinGeographicRange(t *testing.T) {
	wm := NewWebMercator()
	const steps = 40

	for i := 0; i <= steps; i++ {
		x := -MaxEasting + 2*MaxEasting*float64(i)/steps
		for j := 0; j <= steps; j++ {
			y := -MaxNorthing + 2*MaxNorthing*float64(j)/steps
			lat, lon, err := wm.Transform(x, y)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, lat, -90.0)
			assert.LessOrEqual(t, lat, 90.0)
			assert.GreaterOrEqual(t, lon, -180.0)
			assert.LessOrEqual(t, lon, 180.0)
		}
	}
}

func TestTransformAll_PreservesOrder(t *testing.T) {
	records := []ranking.Record{
		{FirstName: "Bruno", LastName: "Sato", City: "Tokyo", Country: "Japan", X: 15550408.91, Y: 4257980.73, Score: 20},
		{FirstName: "Chloe", LastName: "Silva", City: "Rio de Janeiro", Country: "Brazil", X: -4805985.24, Y: -2620751.56, Score: 15},
		{FirstName: "Alice", LastName: "Martin", City: "Paris", Country: "France", X: 261845.71, Y: 6250564.35, Score: 10},
	}

	geo, err := TransformAll(NewWebMercator(), records)
	require.NoError(t, err)
	require.Len(t, geo, len(records))

	for i, r := range records {
		assert.Equal(t, r.FirstName, geo[i].FirstName)
		assert.Equal(t, r.LastName, geo[i].LastName)
		assert.Equal(t, r.City, geo[i].City)
		assert.Equal(t, r.Country, geo[i].Country)
		assert.Equal(t, r.Score, geo[i].Score)

		lat, lon, err := NewWebMercator().Transform(r.X, r.Y)
		require.NoError(t, err)
		assert.Equal(t, lat, geo[i].Lat)
		assert.Equal(t, lon, geo[i].Lon)
	}
}

func TestTransformAll_Empty(t *testing.T) {
	geo, err := TransformAll(NewWebMercator(), nil)
	require.NoError(t, err)
	assert.NotNil(t, geo)
	assert.Empty(t, geo)
}

func TestTransformAll_FailsWithoutPartialOutput(t *testing.T) {
	records := []ranking.Record{
		{FirstName: "Alice", X: 261845.71, Y: 6250564.35},
		{FirstName: "Xavier", X: 3e7, Y: 0},
		{FirstName: "Nova", X: 0, Y: 0},
	}

	geo, err := TransformAll(NewWebMercator(), records)
	require.Error(t, err)
	assert.Nil(t, geo)
	assert.True(t, errors.Is(err, ErrCoordinateTransform))

	var te *TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Index)
	assert.Equal(t, 3e7, te.X)
	assert.Contains(t, err.Error(), "record 1")
}

type failingTransformer struct{ err error }

func (f failingTransformer) Transform(x, y float64) (float64, float64, error) {
	return 0, 0, f.err
}

func TestTransformAll_WrapsOtherErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := TransformAll(failingTransformer{err: boom}, []ranking.Record{{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "record 0")
}
