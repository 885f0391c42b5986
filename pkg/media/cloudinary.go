package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Kind is the Cloudinary resource type of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset is a hosted media file.
type Asset struct {
	URL      string
	PublicID string
	Format   string
	Bytes    int
	Duration float64
}

// Store uploads and removes hosted media.
type Store interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
	ThumbnailURL(videoPublicID string) string
}

var (
	ErrNotFound           = errors.New("media asset not found")
	ErrMissingCredentials = errors.New("cloudinary credentials are missing")
	ErrUploadFailed       = errors.New("failed to upload file")
	ErrDeleteFailed       = errors.New("failed to delete file")
)

// Config holds the Cloudinary account and request tuning.
type Config struct {
	CloudName     string
	APIKey        string
	APISecret     string
	Folder        string
	UploadTimeout time.Duration
	DeleteTimeout time.Duration
	MaxRetries    int
}

// Cloudinary is a Store backed by the Cloudinary upload API.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	cfg    Config
	logger *zap.Logger
}

// NewCloudinary initializes the Cloudinary client
func NewCloudinary(cfg Config, logger *zap.Logger) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 5 * time.Minute
	}
	if cfg.DeleteTimeout <= 0 {
		cfg.DeleteTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary: %w", err)
	}

	logger.Info("Cloudinary client initialized", zap.String("cloud", cfg.CloudName))
	return &Cloudinary{client: cld, cfg: cfg, logger: logger}, nil
}

// Upload sends the file at localPath to Cloudinary, retrying transient
// failures with exponential backoff. The local file is left in place.
func (c *Cloudinary) Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.UploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         c.cfg.Folder,
		ResourceType:   string(kind),
		UseFilename:    ptrBool(false),
		UniqueFilename: ptrBool(true),
	}

	var result *uploader.UploadResult
	operation := func() error {
		file, err := os.Open(localPath)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer file.Close()

		res, err := c.client.Upload.Upload(ctx, file, params)
		if err != nil {
			return err
		}
		if res.SecureURL == "" {
			return fmt.Errorf("cloudinary rejected upload: %s", decodeResult(res).Error.Message)
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.UploadTimeout / 2
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)
	err := backoff.RetryNotify(operation, policy, func(err error, d time.Duration) {
		c.logger.Warn("Upload attempt failed",
			zap.String("path", localPath),
			zap.String("kind", string(kind)),
			zap.Error(err),
			zap.Duration("backoff", d))
	})
	if err != nil {
		c.logger.Error("All upload attempts failed", zap.String("path", localPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	asset := &Asset{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Bytes:    result.Bytes,
		Duration: decodeResult(result).duration(),
	}
	c.logger.Info("File uploaded",
		zap.String("public_id", asset.PublicID),
		zap.String("url", asset.URL),
		zap.Float64("media_duration", asset.Duration),
		zap.Duration("elapsed", time.Since(start)))
	return asset, nil
}

// Delete removes an asset. A missing asset is reported as ErrNotFound.
func (c *Cloudinary) Delete(ctx context.Context, publicID string, kind Kind) error {
	if publicID == "" {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DeleteTimeout)
	defer cancel()

	result, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(kind),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	switch result.Result {
	case "ok":
		c.logger.Info("File deleted", zap.String("public_id", publicID))
		return nil
	case "not found":
		return fmt.Errorf("%w: %s", ErrNotFound, publicID)
	default:
		return fmt.Errorf("%w: result %q", ErrDeleteFailed, result.Result)
	}
}

// ThumbnailURL derives a poster frame for a hosted video. Cloudinary picks
// the frame when the URL is first requested.
func (c *Cloudinary) ThumbnailURL(videoPublicID string) string {
	return ThumbnailURL(c.cfg.CloudName, videoPublicID)
}

// ThumbnailURL builds the auto start offset thumbnail URL of a video.
func ThumbnailURL(cloudName, videoPublicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_auto/%s.jpg", cloudName, videoPublicID)
}

// uploadFields holds response fields that are not part of the typed upload result.
type uploadFields struct {
	Duration float64         `json:"duration"`
	Response json.RawMessage `json:"Response"`
	Error    struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (f uploadFields) duration() float64 {
	if f.Duration > 0 || len(f.Response) == 0 {
		return f.Duration
	}
	var raw struct {
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(f.Response, &raw); err != nil {
		return 0
	}
	return raw.Duration
}

func decodeResult(res *uploader.UploadResult) uploadFields {
	var fields uploadFields
	data, err := json.Marshal(res)
	if err != nil {
		return fields
	}
	_ = json.Unmarshal(data, &fields)
	return fields
}

func ptrBool(b bool) *bool {
	return &b
}
