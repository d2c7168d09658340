// Package astroconf loads the JSON device list that drives a capture
// run. It validates and normalizes each record before the capture
// engine ever sees it: devices missing required fields are skipped with
// a warning, unsupported formats are coerced to jpg, and directory
// names are reduced to safe filename characters.
package astroconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocapture"
	"github.com/Asteroidea-tn/astrograb/pkg/astrocrypt"
)

var (
	// ErrNotFound reports a missing config file. Fatal to the run.
	ErrNotFound = errors.New("config file not found")

	// ErrInvalidJSON reports a config file that does not parse. Fatal
	// to the run.
	ErrInvalidJSON = errors.New("invalid JSON in config file")
)

const defaultFilename = "video"

type rawCrop struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type rawDevice struct {
	CameraName         string   `json:"camera_name"`
	CameraURL          string   `json:"camera_url"`
	CameraURLEncrypted string   `json:"camera_url_encrypted"`
	Directory          string   `json:"directory"`
	Filename           string   `json:"filename"`
	Fileformat         string   `json:"fileformat"`
	Duration           int      `json:"duration"`
	Crop               *rawCrop `json:"crop"`
}

// Loader turns raw config records into validated capture devices.
type Loader struct {
	// Crypt decrypts camera_url_encrypted values. Without it, records
	// carrying only an encrypted URL are skipped.
	Crypt *astrocrypt.Service
}

// LoadDevices reads and validates the device list at path. A missing
// file or malformed JSON is a fatal error; individually broken records
// are skipped with a warning and do not fail the load.
func (l *Loader) LoadDevices(path string) ([]astrocapture.Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var records []rawDevice
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	devices := make([]astrocapture.Device, 0, len(records))
	for _, record := range records {
		device, ok := l.normalize(record)
		if !ok {
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func (l *Loader) normalize(record rawDevice) (astrocapture.Device, bool) {
	url, ok := l.resolveURL(record)
	if record.CameraName == "" || !ok {
		log.Warn().
			Str("camera", record.CameraName).
			Msg("skipping device with missing camera_name or camera_url")
		return astrocapture.Device{}, false
	}

	device := astrocapture.Device{
		Name:      record.CameraName,
		URL:       url,
		Directory: SafeFilename(record.Directory),
		Filename:  record.Filename,
		Format:    normalizeFormat(record.CameraName, record.Fileformat),
	}
	if device.Filename == "" {
		device.Filename = defaultFilename
	}
	if record.Duration > 0 {
		device.Duration = time.Duration(record.Duration) * time.Second
	}

	if record.Crop != nil {
		if record.Crop.Width <= 0 || record.Crop.Height <= 0 {
			log.Warn().
				Str("camera", record.CameraName).
				Msg("ignoring crop with non-positive size")
		} else {
			rect := image.Rect(record.Crop.X, record.Crop.Y,
				record.Crop.X+record.Crop.Width, record.Crop.Y+record.Crop.Height)
			device.Crop = &rect
		}
	}

	return device, true
}

func (l *Loader) resolveURL(record rawDevice) (string, bool) {
	if record.CameraURL != "" {
		return record.CameraURL, true
	}
	if record.CameraURLEncrypted == "" {
		return "", false
	}
	if l.Crypt == nil {
		log.Warn().
			Str("camera", record.CameraName).
			Msg("encrypted camera_url present but no decryption key configured")
		return "", false
	}

	url, err := l.Crypt.Decrypt(record.CameraURLEncrypted)
	if err != nil || url == "" {
		log.Warn().
			Err(err).
			Str("camera", record.CameraName).
			Msg("could not decrypt camera_url")
		return "", false
	}
	return url, true
}

func normalizeFormat(name, format string) astrocapture.Format {
	switch format {
	case "":
		return astrocapture.FormatVideo
	case string(astrocapture.FormatImage):
		return astrocapture.FormatImage
	case string(astrocapture.FormatVideo):
		return astrocapture.FormatVideo
	default:
		log.Warn().
			Str("camera", name).
			Str("fileformat", format).
			Msg("unsupported file format, falling back to jpg")
		return astrocapture.FormatImage
	}
}

// SafeFilename strips every character that is not a letter, digit,
// underscore or dot, so config values can never escape the output
// directory.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		}
	}

	// A segment of only dots ("." or "..") would escape or reuse the
	// base directory.
	if strings.Trim(b.String(), ".") == "" {
		return ""
	}
	return b.String()
}
