package state

import (
	"math/rand"
	"testing"

	"github.com/san-kum/ddpnode/internal/dynamo"
)

func TestVectorDimensions(t *testing.T) {
	tests := []struct {
		name   string
		s      *Vector
		nx, nq int
		nv     int
	}{
		{"split", NewVector(2, 2), 4, 2, 2},
		{"unsplit", NewVectorN(3), 3, 3, 0},
		{"empty", NewVector(0, 0), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.s.Nx() != tt.nx || tt.s.Ndx() != tt.nx {
				t.Errorf("expected nx=ndx=%d, got nx=%d ndx=%d", tt.nx, tt.s.Nx(), tt.s.Ndx())
			}
			if tt.s.Nq() != tt.nq || tt.s.Nv() != tt.nv {
				t.Errorf("expected nq=%d nv=%d, got nq=%d nv=%d", tt.nq, tt.nv, tt.s.Nq(), tt.s.Nv())
			}
			if tt.s.Nq()+tt.s.Nv() != tt.s.Nx() {
				t.Error("nq + nv must equal nx")
			}
		})
	}
}

func TestVectorDiffIntegrate(t *testing.T) {
	s := NewVector(2, 1)
	rng := rand.New(rand.NewSource(7))

	x0 := s.Rand(rng)
	x1 := s.Rand(rng)

	dx := s.Zero()
	s.Diff(x0, x1, dx)

	back := s.Zero()
	s.Integrate(x0, dx, back)

	for i := 0; i < s.Nx(); i++ {
		if back.AtVec(i) != x1.AtVec(i) {
			t.Errorf("integrate(x0, diff(x0, x1))[%d] = %f, want %f", i, back.AtVec(i), x1.AtVec(i))
		}
	}
}

func TestVectorRandRange(t *testing.T) {
	s := NewVectorN(50)
	x := s.Rand(rand.New(rand.NewSource(1)))
	for _, v := range dynamo.Slice(x) {
		if v < -1 || v >= 1 {
			t.Fatalf("coordinate %f outside [-1, 1)", v)
		}
	}
}

func TestNewVectorNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative dimension")
		}
	}()
	NewVector(-1, 0)
}
