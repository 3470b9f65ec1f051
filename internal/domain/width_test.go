package domain

import "testing"

func TestClampWidth(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, MinWidth},
		{0, MinWidth},
		{1, MinWidth},
		{3, 3},
		{10, 10},
		{20, 20},
		{21, MaxWidth},
		{1000, MaxWidth},
	}
	for _, tc := range tests {
		if got := ClampWidth(tc.in); got != tc.want {
			t.Errorf("ClampWidth(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewRetrievalRequest_EmptyTypesExpand(t *testing.T) {
	req := NewRetrievalRequest([]float32{0.1}, nil, 50)

	if req.Width != MaxWidth {
		t.Errorf("width = %d, want %d", req.Width, MaxWidth)
	}
	if len(req.Types) != 2 {
		t.Fatalf("types = %v, want full scope", req.Types)
	}
}
