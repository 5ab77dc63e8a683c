package language

import "testing"

func TestParseVersionRequest(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  RequestKind
		wantMajor int
		wantMinor int
		wantPatch int
		wantErr   bool
	}{
		{name: "empty is any", raw: "", wantKind: RequestAny},
		{name: "default literal", raw: "default", wantKind: RequestAny},
		{name: "latest literal", raw: "latest", wantKind: RequestAny},
		{name: "system literal", raw: "system", wantKind: RequestSystemAlias},
		{name: "bare major", raw: "3", wantKind: RequestMajor, wantMajor: 3},
		{name: "major minor", raw: "3.12", wantKind: RequestMajorMinor, wantMajor: 3, wantMinor: 12},
		{
			name: "major minor patch", raw: "3.12.1",
			wantKind: RequestMajorMinorPatch, wantMajor: 3, wantMinor: 12, wantPatch: 1,
		},
		{
			name: "ecosystem prefixed go", raw: "go1.20.3",
			wantKind: RequestMajorMinorPatch, wantMajor: 1, wantMinor: 20, wantPatch: 3,
		},
		{
			name: "ecosystem prefixed ruby dash", raw: "ruby-3.3",
			wantKind: RequestMajorMinor, wantMajor: 3, wantMinor: 3,
		},
		{
			name: "at-prefixed deno", raw: "deno@1.40",
			wantKind: RequestMajorMinor, wantMajor: 1, wantMinor: 40,
		},
		{name: "range expression", raw: ">=3.9,<4", wantKind: RequestRange},
		{name: "absolute path", raw: "/usr/bin/python3.11", wantKind: RequestPath},
		{name: "garbage rejected", raw: "not-a-version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersionRequest(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersionRequest(%q) = %+v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersionRequest(%q) returned error: %v", tt.raw, err)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Major != tt.wantMajor || got.Minor != tt.wantMinor || got.Patch != tt.wantPatch {
				t.Errorf("got %d.%d.%d, want %d.%d.%d",
					got.Major, got.Minor, got.Patch, tt.wantMajor, tt.wantMinor, tt.wantPatch)
			}
		})
	}
}

func TestVersionRequest_SatisfiedBy(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		installed string
		want      bool
	}{
		{name: "any satisfied by anything", raw: "", installed: "3.9.1", want: true},
		{name: "major matches", raw: "3", installed: "3.12.4", want: true},
		{name: "major mismatch", raw: "3", installed: "2.7.18", want: false},
		{name: "major minor matches", raw: "3.12", installed: "3.12.4", want: true},
		{name: "major minor mismatch", raw: "3.12", installed: "3.11.9", want: false},
		{name: "exact patch matches", raw: "3.12.4", installed: "3.12.4", want: true},
		{name: "exact patch mismatch", raw: "3.12.4", installed: "3.12.5", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseVersionRequest(tt.raw)
			if err != nil {
				t.Fatalf("ParseVersionRequest(%q) returned error: %v", tt.raw, err)
			}
			if got := req.SatisfiedBy(tt.installed); got != tt.want {
				t.Errorf("SatisfiedBy(%q) = %v, want %v", tt.installed, got, tt.want)
			}
		})
	}
}
