package pipreqs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "pinned requirements",
			output: "requests==2.31.0\nnumpy==1.26.4\n",
			want:   []string{"requests", "numpy"},
		},
		{
			name:   "mixed specifiers",
			output: "flask>=2.0\npandas~=2.1\nscipy<2\n",
			want:   []string{"flask", "pandas", "scipy"},
		},
		{
			name:   "extras stripped",
			output: "uvicorn[standard]==0.23.2\n",
			want:   []string{"uvicorn"},
		},
		{
			name:   "comments and blanks dropped",
			output: "# generated by pipreqs\n\nrequests==2.31.0\n",
			want:   []string{"requests"},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutput(tt.output))
		})
	}
}

func TestDetectPackageNames_MissingBinary(t *testing.T) {
	source := NewPipreqsSupplementalSource(&PipreqsConfig{
		Binary: "definitely-not-a-real-binary-name",
	})

	_, err := source.DetectPackageNames(context.Background(), t.TempDir())
	assert.Error(t, err)
}
