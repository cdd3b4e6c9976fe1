package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"info", "json", false},
		{"DEBUG", "console", false},
		{"warn", "", false},
		{"verbose", "json", true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if logger == nil {
				t.Fatal("Expected a logger")
			}
		})
	}
}

func TestNew_LevelIsApplied(t *testing.T) {
	logger, err := New("warn", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("Expected debug to be disabled at warn level")
	}
	if !logger.Core().Enabled(1) {
		t.Error("Expected warn to be enabled at warn level")
	}
}
