package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "3000" {
		t.Errorf("App.Port = %q, want 3000", cfg.App.Port)
	}
	if cfg.Dataset.Root != "static/datasets" {
		t.Errorf("Dataset.Root = %q, want static/datasets", cfg.Dataset.Root)
	}
	if cfg.Dataset.Quota != 500 {
		t.Errorf("Dataset.Quota = %d, want 500", cfg.Dataset.Quota)
	}
	if cfg.Vision.ModelPath != "trainer.yml" {
		t.Errorf("Vision.ModelPath = %q, want trainer.yml", cfg.Vision.ModelPath)
	}
	if cfg.Vision.DistanceThreshold != 80 {
		t.Errorf("Vision.DistanceThreshold = %v, want 80", cfg.Vision.DistanceThreshold)
	}
	if cfg.Scheduler.RetrainEnabled {
		t.Error("Scheduler.RetrainEnabled = true, want false by default")
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("RateLimit = %+v, want enabled with 100 requests", cfg.RateLimit)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DATASET_QUOTA", "25")
	t.Setenv("VISION_DISTANCE_THRESHOLD", "65.5")
	t.Setenv("RETRAIN_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.Dataset.Quota != 25 {
		t.Errorf("Dataset.Quota = %d, want 25", cfg.Dataset.Quota)
	}
	if cfg.Vision.DistanceThreshold != 65.5 {
		t.Errorf("Vision.DistanceThreshold = %v, want 65.5", cfg.Vision.DistanceThreshold)
	}
	if !cfg.Scheduler.RetrainEnabled {
		t.Error("Scheduler.RetrainEnabled = false, want true")
	}
}
