package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		want     MIME
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain},
		{"JSON with charset", "application/json; charset=utf-8", ApplicationJSON},
		{"PDF", "application/pdf", ApplicationPDF},
		{"PNG", "image/png", ImagePNG},
		{"Invalid MIME", "not a mime", Unknown},
		{"Bare token", "attachment", Unknown},
		{"Pattern", "image/*", MIME("image/*")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.detected))
		})
	}
}

func TestAllowedBy(t *testing.T) {
	req := require.New(t)
	allowed := ParseList("image/png, image/jpeg,,garbage")
	req.Equal([]MIME{ImagePNG, ImageJPEG}, allowed)

	req.True(ImagePNG.AllowedBy(allowed))
	req.False(ApplicationPDF.AllowedBy(allowed))
	req.True(ApplicationPDF.AllowedBy(nil))
}

func TestAllowedBy_Patterns(t *testing.T) {
	req := require.New(t)
	allowed := ParseList("image/*, application/pdf")

	req.True(ImagePNG.AllowedBy(allowed))
	req.True(ImageWEBP.AllowedBy(allowed))
	req.True(ApplicationPDF.AllowedBy(allowed))
	req.False(ApplicationZIP.AllowedBy(allowed))
	req.False(Unknown.AllowedBy(allowed))
}
