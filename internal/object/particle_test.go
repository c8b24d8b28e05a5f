package object

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testParams() SpawnParams {
	return SpawnParams{
		Speed:      0.5,
		Radius:     Range{Min: 1, Max: 2},
		EdgeOffset: 5,
	}
}

func TestInteriorSpawnStaysOnSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	screen := NewScreen(80, 60)

	for i := 0; i < 500; i++ {
		p := Spawn(InteriorSpawn, screen, testParams(), epoch, rng)
		require.True(t, screen.Contains(p.X, p.Y), "spawned at %.2f,%.2f", p.X, p.Y)
		assert.True(t, p.Entered)
		assert.InDelta(t, 0.5, p.Speed(), 1e-9)
		assert.GreaterOrEqual(t, p.Radius, 1.0)
		assert.LessOrEqual(t, p.Radius, 2.0)
		assert.Zero(t, p.Lifespan)
		p.Release()
	}
}

func TestEdgeEntrySpawnHeadsInward(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	screen := NewScreen(80, 60)
	w, h := float64(screen.Width), float64(screen.Height)

	for i := 0; i < 500; i++ {
		p := Spawn(EdgeEntrySpawn, screen, testParams(), epoch, rng)
		require.False(t, p.Entered)
		require.False(t, screen.Contains(p.X, p.Y))

		switch {
		case p.Y == -5:
			assert.GreaterOrEqual(t, p.VY, -1e-9, "top edge moves down")
		case p.Y == h+5:
			assert.LessOrEqual(t, p.VY, 1e-9, "bottom edge moves up")
		case p.X == -5:
			assert.GreaterOrEqual(t, p.VX, -1e-9, "left edge moves right")
		case p.X == w+5:
			assert.LessOrEqual(t, p.VX, 1e-9, "right edge moves left")
		default:
			t.Fatalf("particle not on an edge: %.2f,%.2f", p.X, p.Y)
		}
		p.Release()
	}
}

func TestSpawnSamplesLifespan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	params := testParams()
	params.Lifespan = Range{Min: 2, Max: 4}

	p := Spawn(InteriorSpawn, NewScreen(10, 10), params, epoch, rng)
	assert.GreaterOrEqual(t, p.Lifespan, 2*time.Second)
	assert.LessOrEqual(t, p.Lifespan, 4*time.Second)
	assert.Equal(t, epoch, p.Born)
}

func TestWrapSnapsToOppositeEdge(t *testing.T) {
	screen := NewScreen(100, 50)
	ctx := UpdateContext{Now: epoch, Screen: screen}

	cases := []struct {
		name         string
		p            Particle
		wantX, wantY float64
	}{
		{"left", Particle{X: 0.5, Y: 10, VX: -1, Entered: true}, 100, 10},
		{"right", Particle{X: 99.5, Y: 10, VX: 1, Entered: true}, 0, 10},
		{"top", Particle{X: 10, Y: 0.2, VY: -1, Entered: true}, 10, 50},
		{"bottom", Particle{X: 10, Y: 49.9, VY: 1, Entered: true}, 10, 0},
		{"inside", Particle{X: 10, Y: 10, VX: 1, VY: 1, Entered: true}, 11, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.p
			p.Connections = 3
			p.Update(ctx)
			assert.InDelta(t, tc.wantX, p.X, 1e-9)
			assert.InDelta(t, tc.wantY, p.Y, 1e-9)
			assert.Zero(t, p.Connections)
			assert.False(t, p.Expired(ctx))
		})
	}
}

func TestEntryPromotion(t *testing.T) {
	screen := NewScreen(100, 50)
	ctx := UpdateContext{Now: epoch, Screen: screen}
	p := Particle{X: 50, Y: -1.5, VY: 1}

	p.Update(ctx)
	assert.False(t, p.Entered, "still outside, no wrap")
	assert.InDelta(t, -0.5, p.Y, 1e-9)

	p.Update(ctx)
	assert.True(t, p.Entered)
	assert.InDelta(t, 0.5, p.Y, 1e-9)
}

func TestExpiry(t *testing.T) {
	screen := NewScreen(100, 50)

	outside := Particle{X: 50 + 151, Y: 25}
	assert.True(t, outside.Expired(UpdateContext{Now: epoch, Screen: screen}))
	near := Particle{X: 50 + 149, Y: 25, Born: epoch, Lifespan: time.Nanosecond}
	assert.False(t, near.Expired(UpdateContext{Now: epoch.Add(time.Hour), Screen: screen}),
		"outside particles ignore lifespan")

	aged := Particle{Entered: true, Born: epoch, Lifespan: time.Second}
	assert.False(t, aged.Expired(UpdateContext{Now: epoch.Add(999 * time.Millisecond), Screen: screen}))
	assert.True(t, aged.Expired(UpdateContext{Now: epoch.Add(time.Second), Screen: screen}))

	immortal := Particle{Entered: true, Born: epoch}
	assert.False(t, immortal.Expired(UpdateContext{Now: epoch.Add(time.Hour), Screen: screen}))
}

func TestProgress(t *testing.T) {
	p := Particle{Born: epoch, Lifespan: 4 * time.Second}
	assert.InDelta(t, 0.0, p.Progress(epoch), 1e-12)
	assert.InDelta(t, 0.25, p.Progress(epoch.Add(time.Second)), 1e-12)
	assert.InDelta(t, 1.0, p.Progress(epoch.Add(time.Minute)), 1e-12)

	immortal := Particle{Born: epoch}
	assert.Zero(t, immortal.Progress(epoch.Add(time.Minute)))
}

func TestSpawnAngleCoversHalfPlane(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	screen := NewScreen(40, 40)
	var sawLeftward, sawRightward bool
	for i := 0; i < 2000; i++ {
		p := Spawn(EdgeEntrySpawn, screen, testParams(), epoch, rng)
		if p.Y < 0 {
			if p.VX < -0.4 {
				sawLeftward = true
			}
			if p.VX > 0.4 {
				sawRightward = true
			}
			assert.GreaterOrEqual(t, math.Atan2(p.VY, p.VX), -1e-9)
		}
		p.Release()
	}
	assert.True(t, sawLeftward)
	assert.True(t, sawRightward)
}
