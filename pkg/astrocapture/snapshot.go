package astrocapture

import (
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
)

// WriteSnapshot encodes the frame as JPEG and writes it to path so a
// concurrent reader never observes a partial file: the bytes go to a
// temp file that is fsynced and renamed into place. Returns the frame's
// pixel dimensions. There is no retry on failure.
func WriteSnapshot(frame astrocam.Frame, path string, quality int) (width, height int, err error) {
	data, err := frame.EncodeJPEG(quality)
	if err != nil {
		return 0, 0, fmt.Errorf("encode snapshot: %w", err)
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("create pending snapshot %s: %w", path, err)
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil {
			log.Debug().Err(cerr).Str("path", path).Msg("cleanup pending snapshot")
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return 0, 0, fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, 0, fmt.Errorf("finalize snapshot %s: %w", path, err)
	}

	width, height = frame.Dimensions()
	return width, height, nil
}
