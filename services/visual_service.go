package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"beautyconsult-backend/models"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/storage"
	"beautyconsult-backend/utils"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
)

const (
	MaxVisualImages = 8
	MaxImageBytes   = 5 << 20
	visualPrefix    = "visualDetails/"
)

var (
	ErrInvalidImage       = errors.New("images must be jpg or png")
	ErrTooManyImages      = errors.New("too many images")
	ErrMissingImage       = errors.New("at least one image is required")
	ErrImageTooLarge      = errors.New("image exceeds 5MB")
	ErrDescriptionTooLong = errors.New("description exceeds 500 characters")
)

var unsafeObjectNameRunes = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Upload is one received image file.
type Upload struct {
	Name string
	Data []byte
}

type VisualInput struct {
	Images       []Upload
	DetailImages []Upload
	Description  string
	CreatedBy    string
}

type VisualQuery struct {
	Text string
	Date *time.Time
}

type VisualService struct {
	repo     repositories.VisualRepository
	store    storage.ObjectStore
	maxWidth int
	loc      *time.Location
	now      func() time.Time
}

func NewVisualService(repo repositories.VisualRepository, store storage.ObjectStore, maxWidth int, loc *time.Location) *VisualService {
	if loc == nil {
		loc = time.Local
	}
	return &VisualService{repo: repo, store: store, maxWidth: maxWidth, loc: loc, now: time.Now}
}

// ValidateVisualInput checks counts, sizes and formats before anything is
// uploaded.
func ValidateVisualInput(in VisualInput) error {
	if len(in.Images) == 0 {
		return ErrMissingImage
	}
	if len(in.Images) > MaxVisualImages || len(in.DetailImages) > MaxVisualImages {
		return ErrTooManyImages
	}
	if utf8.RuneCountInString(in.Description) > models.MaxVisualDescription {
		return ErrDescriptionTooLong
	}
	for _, list := range [][]Upload{in.Images, in.DetailImages} {
		for _, u := range list {
			if len(u.Data) > MaxImageBytes {
				return fmt.Errorf("%w: %s", ErrImageTooLarge, u.Name)
			}
			if _, err := imageType(u.Data); err != nil {
				return fmt.Errorf("%w: %s", err, u.Name)
			}
		}
	}
	return nil
}

func imageType(data []byte) (string, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png":
		return ct, nil
	}
	return "", ErrInvalidImage
}

func (s *VisualService) Create(ctx context.Context, in VisualInput) (*models.VisualDetail, error) {
	if err := ValidateVisualInput(in); err != nil {
		return nil, err
	}

	images, err := s.uploadAll(ctx, in.Images, visualPrefix)
	if err != nil {
		return nil, err
	}
	details, err := s.uploadAll(ctx, in.DetailImages, visualPrefix+"detail_")
	if err != nil {
		return nil, err
	}

	v := &models.VisualDetail{
		Images:       images,
		Description:  in.Description,
		DetailImages: details,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("save visual detail: %w", err)
	}
	log.Info().Str("visual_id", v.ID).Int("images", len(images)).Int("details", len(details)).Msg("visual detail created")
	return v, nil
}

func (s *VisualService) uploadAll(ctx context.Context, uploads []Upload, prefix string) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		data, contentType, err := s.downscale(u.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidImage, u.Name)
		}
		key := fmt.Sprintf("%s%d_%s", prefix, s.now().UnixMilli(), objectName(u.Name))
		url, err := s.store.Put(ctx, key, contentType, data)
		if err != nil {
			return nil, err
		}
		visualUploads.Inc()
		urls = append(urls, url)
	}
	return urls, nil
}

// downscale re-encodes images wider than maxWidth. Narrower ones are
// uploaded untouched.
func (s *VisualService) downscale(data []byte) ([]byte, string, error) {
	contentType, err := imageType(data)
	if err != nil {
		return nil, "", err
	}
	if s.maxWidth <= 0 {
		return data, contentType, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= s.maxWidth {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	resized := resize.Resize(uint(s.maxWidth), 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}

func objectName(name string) string {
	base := unsafeObjectNameRunes.ReplaceAllString(path.Base(strings.ReplaceAll(name, "\\", "/")), "_")
	if base == "" || base == "." || base == "_" {
		return "image"
	}
	return base
}

func (s *VisualService) List(ctx context.Context) ([]models.VisualDetail, error) {
	return s.repo.List(ctx)
}

func (s *VisualService) Search(ctx context.Context, q VisualQuery) ([]models.VisualDetail, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisuals(all, q, s.loc), nil
}

// FilterVisuals matches a case-insensitive description substring AND the
// creation day.
func FilterVisuals(list []models.VisualDetail, q VisualQuery, loc *time.Location) []models.VisualDetail {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]models.VisualDetail, 0, len(list))
	for _, v := range list {
		if text != "" && !strings.Contains(strings.ToLower(v.Description), text) {
			continue
		}
		if q.Date != nil && !utils.SameDay(q.Date.In(loc), v.CreatedAt) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Delete removes the entry and then its images. Image removal is best effort.
func (s *VisualService) Delete(ctx context.Context, id string) error {
	v, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	for _, url := range append(append([]string{}, v.Images...), v.DetailImages...) {
		key := objectKey(url)
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete visual image")
		}
	}
	return nil
}

func objectKey(url string) string {
	i := strings.Index(url, visualPrefix)
	if i < 0 {
		return ""
	}
	return url[i:]
}
