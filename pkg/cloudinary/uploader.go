package cloudinary

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader ships processed image bytes to Cloudinary and hands back the
// secure delivery URL.
type Uploader struct {
	cld *cld.Cloudinary
}

func NewUploader(cloud *cld.Cloudinary) *Uploader {
	return &Uploader{cld: cloud}
}

func (u *Uploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	res, err := u.cld.Upload.Upload(
		ctx,
		bytes.NewReader(b),
		uploader.UploadParams{
			Folder:       folder,
			PublicID:     filename,
			ResourceType: "image",
		},
	)
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
