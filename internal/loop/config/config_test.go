package config

import (
	"testing"

	"github.com/tomz197/stardrift/internal/game"
)

func TestLoadTuningDefaults(t *testing.T) {
	got := LoadTuning()
	want := game.DefaultTuning()
	if got != want {
		t.Errorf("LoadTuning() = %+v, want defaults", got)
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	t.Setenv("STARDRIFT_SMOOTHING", "0.2")
	t.Setenv("STARDRIFT_SPAWN_BASE", "50")
	t.Setenv("STARDRIFT_MAX_DIFFICULTY", "3")
	t.Setenv("STARDRIFT_VICTORY", "500")
	t.Setenv("STARDRIFT_VERTICAL", "true")

	got := LoadTuning()
	if got.Ship.PositionSmoothing != 0.2 {
		t.Errorf("smoothing = %v", got.Ship.PositionSmoothing)
	}
	if got.Spawn.Base != 50 {
		t.Errorf("spawn base = %v", got.Spawn.Base)
	}
	if got.MaxDifficulty != 3 {
		t.Errorf("max difficulty = %v", got.MaxDifficulty)
	}
	if got.VictoryThreshold != 500 {
		t.Errorf("victory = %v", got.VictoryThreshold)
	}
	if !got.ForceVertical {
		t.Error("vertical layout not forced")
	}
}

func TestLoadTuningIgnoresMalformed(t *testing.T) {
	t.Setenv("STARDRIFT_VICTORY", "lots")

	if got := LoadTuning().VictoryThreshold; got != game.DefaultTuning().VictoryThreshold {
		t.Errorf("victory = %d, want default", got)
	}
}
