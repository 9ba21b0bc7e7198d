package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"

	"smartmind/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// UploadMedia pushes an uploaded file to the configured media host and
// returns the public URL the host assigned. The host is treated as
// "given a file, returns a URL"; when none is configured the file lands on
// local disk instead and a /uploads URL is returned.
func UploadMedia(file *multipart.FileHeader, folder string) (string, error) {
	if config.AppConfig.MediaUploadURL == "" {
		path, err := SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			return "", err
		}
		return GetFileURL(path), nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	publicID := folder + "/" + uuid.NewString()

	client := resty.New()
	resp, err := client.R().
		SetFileReader("file", file.Filename, src).
		SetFormData(map[string]string{
			"upload_preset": config.AppConfig.MediaUploadPreset,
			"folder":        config.AppConfig.MediaFolder,
			"public_id":     publicID,
		}).
		Post(config.AppConfig.MediaUploadURL)
	if err != nil {
		log.Printf("Error uploading media %s: %v", file.Filename, err)
		return "", err
	}
	if resp.StatusCode() != 200 {
		log.Printf("Media upload failed, response code: %d body: %s", resp.StatusCode(), resp.String())
		return "", fmt.Errorf("media upload failed, code: %d", resp.StatusCode())
	}

	var uploadResp struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return "", err
	}

	if uploadResp.SecureURL != "" {
		return uploadResp.SecureURL, nil
	}
	return uploadResp.URL, nil
}
