package license

import "testing"

func TestCacheKeyNamespace(t *testing.T) {
	const id = "ab12cd34"

	tests := []struct {
		got  string
		want string
	}{
		{StatusKey(id), "license:ab12cd34:status"},
		{PreviousResultKey(id), "license:ab12cd34:previous_result"},
		{FetchLockKey(id), "license:ab12cd34:fetch_lock"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}
