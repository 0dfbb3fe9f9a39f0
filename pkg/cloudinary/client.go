package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New builds a client from the CLOUDINARY_URL environment variable when url
// is empty, otherwise from the given cloudinary:// URL.
func New(url string) (*cloudinary.Cloudinary, error) {
	if url == "" {
		return cloudinary.New()
	}
	return cloudinary.NewFromURL(url)
}
