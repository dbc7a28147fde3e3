package world

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/traverse/game"
)

func testWorld() (*World, Ref) {
	w := New(nil)
	w.Add(NewBox("floor", mgl32.Vec3{-500, -500, -10}, mgl32.Vec3{500, 500, 0}))
	wall := w.Add(NewBox("wall", mgl32.Vec3{50, -100, 0}, mgl32.Vec3{150, 100, 40}))
	return w, wall
}

func TestSweepCapsuleHitsWall(t *testing.T) {
	w, wall := testWorld()

	hit, ok := w.Sweep(mgl32.Vec3{-30, 0, 82.6}, mgl32.Vec3{76, 0, 82.6}, Capsule(29, 65), NewQuery(ChannelVisibility))
	if !ok || !hit.IsValidBlockingHit() {
		t.Fatalf("expected a blocking hit, got %+v", hit)
	}
	if hit.Primitive.ID() != wall.ID() {
		t.Fatalf("expected to hit the wall, hit %v", hit.Primitive)
	}
	if hit.ImpactNormal != (mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected wall normal, got %v", hit.ImpactNormal)
	}
	if !game.IsNearlyEqual(hit.Location.X(), 21, 1e-3) {
		t.Fatalf("expected capsule to stop at x=21, got %v", hit.Location)
	}
	if !game.IsNearlyEqual(hit.ImpactPoint.X(), 50, 1e-3) {
		t.Fatalf("expected impact on the wall face, got %v", hit.ImpactPoint)
	}
}

func TestSweepSphereFindsTop(t *testing.T) {
	w, _ := testWorld()

	hit, ok := w.Sweep(mgl32.Vec3{65, 0, 204.4}, mgl32.Vec3{65, 0, 46.6}, Sphere(29), NewQuery(ChannelVisibility))
	if !ok || !hit.IsValidBlockingHit() {
		t.Fatalf("expected a blocking hit, got %+v", hit)
	}
	if hit.ImpactNormal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("expected an upward normal, got %v", hit.ImpactNormal)
	}
	if !game.IsNearlyEqual(hit.Location.Z(), 69, 1e-3) || !game.IsNearlyEqual(hit.ImpactPoint.Z(), 40, 1e-3) {
		t.Fatalf("unexpected hit location %v / impact %v", hit.Location, hit.ImpactPoint)
	}
}

func TestSweepStartPenetrating(t *testing.T) {
	w, _ := testWorld()

	hit, ok := w.Sweep(mgl32.Vec3{100, 0, 20}, mgl32.Vec3{100, 0, 200}, Sphere(10), NewQuery(ChannelVisibility))
	if !ok {
		t.Fatalf("expected a hit")
	}
	if !hit.StartPenetrating || hit.IsValidBlockingHit() {
		t.Fatalf("expected a penetrating hit, got %+v", hit)
	}
}

func TestSweepRespectsResponses(t *testing.T) {
	w, wall := testWorld()
	start, end := mgl32.Vec3{-30, 0, 20}, mgl32.Vec3{76, 0, 20}

	q := NewQuery(ChannelVisibility)
	q.Ignore = []ID{wall.ID()}
	if hit, ok := w.Sweep(start, end, Sphere(5), q); ok {
		t.Fatalf("expected ignored wall to be skipped, hit %+v", hit)
	}

	q = NewQuery(ChannelVisibility)
	q.Responses = q.Responses.With(ChannelWorldStatic, ResponseOverlap)
	if _, ok := w.Sweep(start, end, Sphere(5), q); ok {
		t.Fatalf("expected overlap response not to block")
	}

	p, _ := wall.Resolve()
	p.Responses = p.Responses.With(ChannelCamera, ResponseIgnore)
	w.Add(p)
	if _, ok := w.Sweep(start, end, Sphere(5), NewQuery(ChannelCamera)); ok {
		t.Fatalf("expected wall to ignore the camera channel")
	}
	if _, ok := w.Sweep(start, end, Sphere(5), NewQuery(ChannelVisibility)); !ok {
		t.Fatalf("expected wall to block the visibility channel")
	}
}

func TestSweepRotatedRamp(t *testing.T) {
	w := New(nil)
	rot := mgl32.QuatRotate(mgl32.DegToRad(-20), mgl32.Vec3{0, 1, 0})
	w.Add(Primitive{
		Name:      "ramp",
		Transform: game.Transform{Location: mgl32.Vec3{3.42, 0, -9.4}, Rotation: rot, Scale: mgl32.Vec3{1, 1, 1}},
		Extents:   mgl32.Vec3{200, 100, 10},
	})

	hit, ok := w.Sweep(mgl32.Vec3{-30, 0, 82.6}, mgl32.Vec3{76, 0, 82.6}, Capsule(29, 65), NewQuery(ChannelVisibility))
	if !ok || !hit.IsValidBlockingHit() {
		t.Fatalf("expected to hit the ramp, got %+v", hit)
	}
	want := math32.Cos(mgl32.DegToRad(20))
	if !game.IsNearlyEqual(hit.ImpactNormal.Z(), want, 1e-3) || hit.ImpactNormal.X() >= 0 {
		t.Fatalf("expected a tilted ramp normal facing the sweep, got %v", hit.ImpactNormal)
	}
}

func TestOverlap(t *testing.T) {
	w, _ := testWorld()
	q := NewQuery(ChannelVisibility)

	if w.Overlap(mgl32.Vec3{65, 0, 131.9}, Capsule(30, 90), q) {
		t.Fatalf("expected capsule standing 1.9 above the top to be clear")
	}
	if !w.Overlap(mgl32.Vec3{65, 0, 120}, Capsule(30, 90), q) {
		t.Fatalf("expected capsule sunk into the top to overlap")
	}
	if w.Overlap(mgl32.Vec3{-5, 0, 57.8}, Capsule(29, 40.2), q) {
		t.Fatalf("expected capsule in front of the wall to be clear")
	}
}

func TestRefInvalidation(t *testing.T) {
	w, wall := testWorld()
	if !wall.Valid() {
		t.Fatalf("expected fresh reference to be valid")
	}
	if !w.Remove(wall.ID()) {
		t.Fatalf("expected removal to succeed")
	}
	if wall.Valid() {
		t.Fatalf("expected reference to a removed primitive to be invalid")
	}
	if _, ok := wall.Resolve(); ok {
		t.Fatalf("expected resolve to fail")
	}
	if (Ref{}).Valid() {
		t.Fatalf("expected empty reference to be invalid")
	}
	if w.Ref(wall.ID()).Valid() {
		t.Fatalf("expected rebuilt reference to be invalid as well")
	}
}

func TestTickMovesMovablePrimitives(t *testing.T) {
	w := New(nil)
	p := NewBox("platform", mgl32.Vec3{-50, -50, -5}, mgl32.Vec3{50, 50, 5})
	p.Mobility = MobilityMovable
	p.Velocity = mgl32.Vec3{30, 0, 0}
	ref := w.Add(p)
	static := w.Add(NewBox("rock", mgl32.Vec3{200, 0, 0}, mgl32.Vec3{210, 10, 10}))

	w.Tick(0.5)

	moved, _ := ref.Resolve()
	if moved.Transform.Location != (mgl32.Vec3{15, 0, 0}) {
		t.Fatalf("expected platform to move to x=15, got %v", moved.Transform.Location)
	}
	rock, _ := static.Resolve()
	if rock.Transform.Location != (mgl32.Vec3{205, 5, 5}) {
		t.Fatalf("expected static primitive to stay, got %v", rock.Transform.Location)
	}
}

func TestIDFromNameIsStable(t *testing.T) {
	if IDFromName("wall") != IDFromName("wall") {
		t.Fatalf("expected identical names to give identical IDs")
	}
	if IDFromName("wall") == IDFromName("floor") {
		t.Fatalf("expected different names to give different IDs")
	}
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("visibility")
	if err != nil || c != ChannelVisibility {
		t.Fatalf("expected visibility channel, got %v (%v)", c, err)
	}
	if _, err := ParseChannel("nope"); err == nil {
		t.Fatalf("expected an error for an unknown channel")
	}
	r, err := ParseResponse("ignore")
	if err != nil || r != ResponseIgnore {
		t.Fatalf("expected ignore response, got %v (%v)", r, err)
	}
}
