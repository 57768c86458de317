package chat

import "testing"

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMIME string
		wantData string
	}{
		{
			name:     "png data URL",
			input:    "data:image/png;base64,iVBORw0KGgo=",
			wantMIME: "image/png",
			wantData: "iVBORw0KGgo=",
		},
		{
			name:     "jpeg data URL",
			input:    "data:image/jpeg;base64,/9j/4AAQ",
			wantMIME: "image/jpeg",
			wantData: "/9j/4AAQ",
		},
		{
			name:     "missing mime defaults to png",
			input:    "data:;base64,AAAA",
			wantMIME: "image/png",
			wantData: "AAAA",
		},
		{
			name:     "no base64 marker",
			input:    "AAAA",
			wantMIME: "image/png",
			wantData: "AAAA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data := ParseDataURL(tt.input)
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
			if data != tt.wantData {
				t.Errorf("data = %q, want %q", data, tt.wantData)
			}
		})
	}
}
