package cloudinary

import (
	"fmt"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/rajivgeraev/barter-api/internal/config"
)

// CloudinaryService выдает подписанные параметры для загрузки картинки
// объявления напрямую в Cloudinary. Сами файлы через API не проходят
// и у нас не хранятся — объявление держит только итоговый URL.
type CloudinaryService struct {
	cfg          *config.Config
	uploadFolder string
	uploadPreset string
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config) *CloudinaryService {
	return &CloudinaryService{
		cfg:          cfg,
		uploadFolder: cfg.CloudinaryConfig.UploadFolder,
		uploadPreset: cfg.CloudinaryConfig.UploadPreset,
	}
}

// GenerateUploadParams создаёт подписанные параметры для загрузки изображения
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	if s.cfg.CloudinaryConfig.APISecret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Загрузка изображений не настроена"})
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Параметры, входящие в подпись
	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", s.uploadFolder)
	params.Set("upload_preset", s.uploadPreset)

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка подписи параметров загрузки")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return c.JSON(fiber.Map{
		"timestamp":     timestamp,
		"folder":        s.uploadFolder,
		"upload_preset": s.uploadPreset,
		"signature":     signature,
		"api_key":       s.cfg.CloudinaryConfig.APIKey,
		"cloud_name":    s.cfg.CloudinaryConfig.CloudName,
	})
}
