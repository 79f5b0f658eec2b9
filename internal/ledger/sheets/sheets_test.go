package sheets

import "testing"

func TestConfigConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{
			name: "complete",
			cfg:  Config{SpreadsheetID: "sheet", ClientEmail: "svc@example.iam.gserviceaccount.com", PrivateKey: "key"},
			want: true,
		},
		{name: "missing sheet id", cfg: Config{ClientEmail: "svc@example.com", PrivateKey: "key"}, want: false},
		{name: "missing email", cfg: Config{SpreadsheetID: "sheet", PrivateKey: "key"}, want: false},
		{name: "missing key", cfg: Config{SpreadsheetID: "sheet", ClientEmail: "svc@example.com"}, want: false},
		{name: "empty", cfg: Config{}, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Fatalf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
