package main

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestPresetIndex(t *testing.T) {
	tests := []struct {
		key  sdl.Scancode
		want int
		ok   bool
	}{
		{sdl.SCANCODE_1, 0, true},
		{sdl.SCANCODE_4, 3, true},
		{sdl.SCANCODE_9, 8, true},
		{sdl.SCANCODE_0, 0, false},
		{sdl.SCANCODE_G, 0, false},
	}
	for _, tt := range tests {
		got, ok := presetIndex(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("presetIndex(%v) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStepSpacing(t *testing.T) {
	tests := []struct {
		cur  float32
		dir  int
		want float32
	}{
		{1, 1, 1.25},
		{1, -1, 0.75},
		{0.5, -1, 0.5},
		{5, 1, 5},
		{4.9, 1, 5},
	}
	for _, tt := range tests {
		if got := stepSpacing(tt.cur, tt.dir); got != tt.want {
			t.Errorf("stepSpacing(%v, %d) = %v, want %v", tt.cur, tt.dir, got, tt.want)
		}
	}
}

func TestStepSpeed(t *testing.T) {
	if got := stepSpeed(10, -1); got != minMoveSpeed {
		t.Errorf("stepSpeed below range = %v", got)
	}
	if got := stepSpeed(100, 1); got != maxMoveSpeed {
		t.Errorf("stepSpeed above range = %v", got)
	}
	if got := stepSpeed(50, 1); got != 60 {
		t.Errorf("stepSpeed(50, 1) = %v", got)
	}
}

func TestToggleSpin(t *testing.T) {
	if toggleSpin(0) != spinRate {
		t.Error("spin not started")
	}
	if toggleSpin(0.003) != 0 {
		t.Error("spin not stopped")
	}
}
