package builtin

import "testing"

func TestIdentity(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"no files", nil, ""},
		{"one file", []string{"a.py"}, "a.py"},
		{"many files", []string{"a.py", "b.py", "c.py"}, "a.py\nb.py\nc.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exitCode, output := Identity(tt.files)
			if exitCode != 0 {
				t.Errorf("exitCode = %d, want 0", exitCode)
			}
			if output != tt.want {
				t.Errorf("output = %q, want %q", output, tt.want)
			}
		})
	}
}
