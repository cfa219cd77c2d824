package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	MaxImageSize  = 5 * 1024 * 1024  // 5MB
)

// ValidateDocumentUpload checks if the uploaded file is a valid PDF within size limits
func ValidateDocumentUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of 10MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" {
		return fmt.Errorf("only PDF files are allowed")
	}

	head, err := readFileHead(fileHeader)
	if err != nil {
		return err
	}

	// PDF files start with %PDF
	if len(head) < 4 || string(head[0:4]) != "%PDF" {
		return fmt.Errorf("file is not a valid PDF")
	}

	return nil
}

// ValidateImageUpload checks if the uploaded file is a supported image within size limits
func ValidateImageUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxImageSize {
		return fmt.Errorf("image size exceeds maximum allowed size of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return fmt.Errorf("only PNG, JPEG and WebP images are allowed")
	}

	head, err := readFileHead(fileHeader)
	if err != nil {
		return err
	}

	if !hasImageMagic(head) {
		return fmt.Errorf("file is not a valid image")
	}

	return nil
}

func readFileHead(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return buffer[:n], nil
}

func hasImageMagic(head []byte) bool {
	if len(head) >= 8 && string(head[1:4]) == "PNG" {
		return true
	}
	if len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF {
		return true
	}
	// WebP: RIFF....WEBP
	if len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP" {
		return true
	}
	return false
}
