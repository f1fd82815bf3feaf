package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
)

// YouTubePublisher uploads rendered videos to a channel instead of an
// object store. Selected with PUBLISHER=youtube.
type YouTubePublisher struct {
	service *youtube.Service
	log     *zap.Logger
}

// NewYouTubePublisher authenticates with a service-account JSON file.
func NewYouTubePublisher(ctx context.Context, serviceAccountFile string, log *zap.Logger) (*YouTubePublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &YouTubePublisher{service: service, log: log}, nil
}

// Publish uploads the rendered file as a public video and returns its watch
// URL. The title is the file's base name without extension.
func (p *YouTubePublisher) Publish(ctx context.Context, path string) (string, error) {
	const op = "storage.youtube.publish"

	file, err := os.Open(path)
	if err != nil {
		return "", apperrors.Publish(op, err, "open rendered file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", apperrors.Publish(op, err, "stat rendered file")
	}
	p.log.Info("uploading to YouTube",
		zap.String("path", path),
		zap.Float64("size_mb", float64(info.Size())/(1024*1024)))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Description: config.YouTubeDescription,
			Tags:        config.YouTubeTags,
			CategoryId:  config.YouTubeCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := p.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file).Context(ctx)

	response, err := call.Do()
	if err != nil {
		return "", apperrors.Publish(op, err, "upload video")
	}

	url := fmt.Sprintf("https://youtube.com/watch?v=%s", response.Id)
	p.log.Info("published to YouTube", zap.String("url", url))
	return url, nil
}
