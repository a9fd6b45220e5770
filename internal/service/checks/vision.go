package checks

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Extractor turns a check image into raw text.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// VisionExtractor reads check images with Google Cloud Vision document text detection.
type VisionExtractor struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionExtractor creates a Vision client. An empty credentialsPath falls back
// to application default credentials.
func NewVisionExtractor(ctx context.Context, credentialsPath string) (*VisionExtractor, error) {
	const op = "NewVisionExtractor"

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, wrapExtractionError(op, err, "failed to create vision client")
	}
	return &VisionExtractor{client: client}, nil
}

// ExtractText runs DOCUMENT_TEXT_DETECTION on a single inline image.
func (v *VisionExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	const op = "ExtractText"

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", wrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", wrapExtractionError(op, ErrExtractionFailed, "no response from vision API")
	}

	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return "", wrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("vision API error: %s", imgResp.Error.Message))
	}
	if imgResp.FullTextAnnotation == nil || strings.TrimSpace(imgResp.FullTextAnnotation.Text) == "" {
		return "", wrapExtractionError(op, ErrNoText, "")
	}
	return imgResp.FullTextAnnotation.Text, nil
}

// Close releases the underlying Vision client.
func (v *VisionExtractor) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
