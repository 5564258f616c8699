package memory

import "testing"

func TestResolvePolicyExplicit(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name     string
		explicit Profile
		wantMax  int64
	}{
		{"Default", ProfileDefault, DefaultMaxUploadBytes},
		{"Mobile", ProfileMobile, MobileMaxUploadBytes},
		{"LowMemory", ProfileLowMemory, LowMemoryMaxUploadBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := ResolvePolicy(tt.explicit, limits)

			if policy.Profile != tt.explicit {
				t.Errorf("Profile = %q, want %q", policy.Profile, tt.explicit)
			}
			if policy.MaxUploadBytes != tt.wantMax {
				t.Errorf("MaxUploadBytes = %d, want %d", policy.MaxUploadBytes, tt.wantMax)
			}
			if policy.WarnBytes != tt.wantMax/2 {
				t.Errorf("WarnBytes = %d, want %d", policy.WarnBytes, tt.wantMax/2)
			}
		})
	}
}

func TestResolvePolicyCustomLimits(t *testing.T) {
	limits := Limits{Default: 100, Mobile: 10, LowMemory: 50}

	policy := ResolvePolicy(ProfileMobile, limits)
	if policy.MaxUploadBytes != 10 {
		t.Errorf("MaxUploadBytes = %d, want 10", policy.MaxUploadBytes)
	}
}

func TestDetectProfile(t *testing.T) {
	tests := []struct {
		name     string
		ramBytes int64
		want     Profile
	}{
		{"Unknown RAM", 0, ProfileDefault},
		{"2 GiB", 2 << 30, ProfileLowMemory},
		{"Exactly 4 GiB", 4 << 30, ProfileLowMemory},
		{"8 GiB", 8 << 30, ProfileDefault},
		{"64 GiB", 64 << 30, ProfileDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectProfile(tt.ramBytes); got != tt.want {
				t.Errorf("detectProfile(%d) = %q, want %q", tt.ramBytes, got, tt.want)
			}
		})
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		input string
		want  Profile
	}{
		{"default", ProfileDefault},
		{"desktop", ProfileDefault},
		{"mobile", ProfileMobile},
		{"MOBILE", ProfileMobile},
		{"low-memory", ProfileLowMemory},
		{"lowmemory", ProfileLowMemory},
		{"low_memory", ProfileLowMemory},
		{"", ""},
		{"server", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseProfile(tt.input); got != tt.want {
				t.Errorf("ParseProfile(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{256 << 20, "256.0 MiB"},
		{1 << 30, "1.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBytes(tt.bytes); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
