package photo

import (
	"fmt"
	"os"

	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/tools"
)

// Assign renders the image at sourcePath into a thumbnail and stores it as
// the user's photo. The intermediate encoded file is removed on every path.
// Under dry-run the thumbnail is still rendered but nothing is written to
// the directory.
func Assign(client *ldapclient.LDAPClient, sam, sourcePath string, opts Options, dryRun bool) error {
	user, err := active_directory.GetUserBySAM(client, sam)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", sam, err)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading source image %s: %w", sourcePath, err)
	}

	src, err := Decode(data)
	if err != nil {
		return fmt.Errorf("source image %s: %w", sourcePath, err)
	}

	thumb := RenderThumbnail(src, opts)
	encoded, err := EncodeJPEG(thumb, opts)
	if err != nil {
		return err
	}

	if dryRun {
		tools.Log.Infof("[DRY] Store %d byte thumbnail on %s", len(encoded), user.DN)
		return nil
	}

	// The encoded result goes to disk first; the stored bytes are read
	// back from there. Removed on every exit path.
	tmpPath, err := stageEncoded(encoded)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	stored, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("reading staged thumbnail %s: %w", tmpPath, err)
	}

	if err := active_directory.SetUserPhoto(client, user.DN, stored); err != nil {
		return err
	}

	tools.Log.WithFields(map[string]interface{}{
		"sam":    sam,
		"source": sourcePath,
		"bytes":  len(stored),
	}).Info("Thumbnail photo updated")
	return nil
}

// stageEncoded writes encoded bytes to a temp file and returns its path.
// The caller owns removal.
func stageEncoded(encoded []byte) (string, error) {
	tmp, err := os.CreateTemp("", "offboardctl-photo-*.jpg")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	return tmpPath, nil
}
