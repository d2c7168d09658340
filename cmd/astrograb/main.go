// Command astrograb captures snapshots or timed clips from a list of
// network cameras described in a JSON config file, one result file per
// device per run. Built for unattended scheduled runs: a bad camera is
// logged and skipped, never fatal to the batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
	"github.com/Asteroidea-tn/astrograb/pkg/astrocapture"
	"github.com/Asteroidea-tn/astrograb/pkg/astroconf"
	"github.com/Asteroidea-tn/astrograb/pkg/astrocrypt"
	"github.com/Asteroidea-tn/astrograb/pkg/astroenv"
	"github.com/Asteroidea-tn/astrograb/pkg/astrolog"
	"github.com/Asteroidea-tn/astrograb/pkg/astromail"
)

type settings struct {
	BaseDir   string `env:"ASTROGRAB_BASE_DIR,snapshots_rtsp"`
	Workers   int    `env:"ASTROGRAB_WORKERS,1"`
	URLKey    string `env:"ASTROGRAB_URL_KEY,"`
	LogLevel  string `env:"ASTROGRAB_LOG_LEVEL,info"`
	LogToFile bool   `env:"ASTROGRAB_LOG_TO_FILE,false"`
	LogDir    string `env:"ASTROGRAB_LOG_DIR,./logs"`

	WaitTimeoutMS   int     `env:"ASTROGRAB_WAIT_TIMEOUT_MS,5000"`
	PollIntervalMS  int     `env:"ASTROGRAB_POLL_INTERVAL_MS,50"`
	JPEGQuality     int     `env:"ASTROGRAB_JPEG_QUALITY,95"`
	FrameRate       float64 `env:"ASTROGRAB_FRAME_RATE,25"`
	DefaultDuration int     `env:"ASTROGRAB_DEFAULT_DURATION,10"`

	Mail struct {
		Host     string `env:"ASTROGRAB_SMTP_HOST,"`
		Port     int    `env:"ASTROGRAB_SMTP_PORT,587"`
		Username string `env:"ASTROGRAB_SMTP_USER,"`
		Password string `env:"ASTROGRAB_SMTP_PASS,"`
		From     string `env:"ASTROGRAB_MAIL_FROM,"`
		To       string `env:"ASTROGRAB_MAIL_TO,"`
	}
}

func main() {
	configFile := flag.String("config-file", "", "path to the JSON camera config file")
	baseDir := flag.String("base-dir", "", "output base directory (overrides ASTROGRAB_BASE_DIR)")
	encryptURL := flag.String("encrypt-url", "", "encrypt a camera URL with ASTROGRAB_URL_KEY and exit")
	flag.Parse()

	var cfg settings
	if err := astroenv.Load(&cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load settings")
	}

	astrolog.Init(astrolog.Config{
		Level:     cfg.LogLevel,
		LogToFile: cfg.LogToFile,
		LogDir:    cfg.LogDir,
	})

	crypt := newCryptService(cfg.URLKey)

	if *encryptURL != "" {
		if crypt == nil {
			log.Fatal().Msg("set ASTROGRAB_URL_KEY to encrypt camera URLs")
		}
		sealed, err := crypt.Encrypt(*encryptURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not encrypt URL")
		}
		fmt.Println(sealed)
		return
	}

	if *configFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	loader := &astroconf.Loader{Crypt: crypt}
	devices, err := loader.LoadDevices(*configFile)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configFile).Msg("could not load device config")
	}

	outDir := cfg.BaseDir
	if *baseDir != "" {
		outDir = *baseDir
	}

	policy := astrocapture.Policy{
		WaitTimeout:     time.Duration(cfg.WaitTimeoutMS) * time.Millisecond,
		PollInterval:    time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		JPEGQuality:     cfg.JPEGQuality,
		FrameRate:       cfg.FrameRate,
		DefaultDuration: time.Duration(cfg.DefaultDuration) * time.Second,
	}

	dispatcher := astrocapture.NewDispatcher(astrocam.NewOpenCVBackend(), outDir, policy)
	runner := astrocapture.NewRunner(dispatcher)
	runner.Workers = cfg.Workers

	outcomes := runner.Run(context.Background(), devices)

	succeeded, failed := astrocapture.Summarize(outcomes)
	log.Info().
		Int("devices", len(devices)).
		Int("succeeded", succeeded).
		Int("failed", failed).
		Msg("batch finished")

	mailer := astromail.New(astromail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
	})
	if mailer.Enabled() && len(outcomes) > 0 {
		if err := mailer.SendReport(outcomes); err != nil {
			log.Error().Err(err).Msg("could not mail capture report")
		}
	}

	// Per-device failures are advisory: the run succeeded as long as
	// the whole list was processed.
}

func newCryptService(key string) *astrocrypt.Service {
	if key == "" {
		return nil
	}
	svc, err := astrocrypt.NewService([]byte(key))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ASTROGRAB_URL_KEY")
	}
	return svc
}
