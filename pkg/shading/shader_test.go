package shading

import (
	"testing"

	"github.com/taigrr/softshade/pkg/models"
)

func TestPartitionRange(t *testing.T) {
	tests := []struct {
		name  string
		count int
		n     int
		want  [][2]int
	}{
		{"single", 1, 10, [][2]int{{0, 10}}},
		{"even", 2, 10, [][2]int{{0, 5}, {5, 10}}},
		{"uneven", 3, 10, [][2]int{{0, 3}, {3, 6}, {6, 10}}},
		{"more workers than items", 4, 2, [][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				lo, hi := Partition{Index: i, Count: tt.count}.Range(tt.n)
				if lo != want[0] || hi != want[1] {
					t.Errorf("partition %d = [%d, %d), want [%d, %d)", i, lo, hi, want[0], want[1])
				}
			}
		})
	}
}

func TestPartitionBandsCoverTarget(t *testing.T) {
	const height = 97
	for count := 1; count <= 8; count++ {
		next := 0
		for i := range count {
			y0, y1 := Partition{Index: i, Count: count}.Band(height)
			if y0 != next {
				t.Fatalf("count %d: band %d starts at %d, want %d", count, i, y0, next)
			}
			if y1 < y0 {
				t.Fatalf("count %d: band %d is inverted", count, i)
			}
			next = y1
		}
		if next != height {
			t.Errorf("count %d: bands end at %d, want %d", count, next, height)
		}
	}
}

func TestCanUse(t *testing.T) {
	mat := func(shader int) *models.Material {
		m := models.NewMaterial("m")
		m.Shader = shader
		return &m
	}

	tests := []struct {
		name   string
		mat    *models.Material
		index  int
		def    int
		global bool
		want   bool
	}{
		{"default material, default shader", mat(models.DefaultShader), 2, 2, false, true},
		{"default material, other shader", mat(models.DefaultShader), 1, 2, false, false},
		{"explicit match", mat(3), 3, 2, false, true},
		{"explicit mismatch", mat(3), 2, 2, false, false},
		{"global takes everything", mat(3), 0, 2, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canUse(tt.mat, tt.index, tt.def, tt.global); got != tt.want {
				t.Errorf("canUse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShaderNames(t *testing.T) {
	tests := []struct {
		shader Shader
		name   string
		global bool
	}{
		{NewUnlitShader(), "unlit", false},
		{NewGouraudShader(), "gouraud", false},
		{NewShadowShader(models.LightDirectional), "shadow-directional", true},
		{NewShadowShader(models.LightSpot), "shadow-spot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shader.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.shader.Global(); got != tt.global {
				t.Errorf("Global() = %v, want %v", got, tt.global)
			}
			if tt.shader.NewInstance() == nil {
				t.Error("NewInstance() returned nil")
			}
		})
	}
}
